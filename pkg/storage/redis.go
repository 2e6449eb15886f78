// Copyright (c) 2025 马晓璐
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// Package storage 创建 go-redis 客户端，支持单机、哨兵与集群三种模式.
package storage

import (
	"crypto/tls"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/maxiaolu1981/light/pkg/log"
)

// Config redis 连接配置.
type Config struct {
	Host                  string
	Port                  int
	Addrs                 []string
	MasterName            string
	Username              string
	Password              string
	Database              int
	MaxIdle               int
	MaxActive             int
	Timeout               int
	EnableCluster         bool
	UseSSL                bool
	SSLInsecureSkipVerify bool
}

// NewRedisClient 根据配置创建客户端：配置了 MasterName 走哨兵，EnableCluster 走集群，否则单机.
func NewRedisClient(config *Config) redis.UniversalClient {
	poolSize := 500
	if config.MaxActive > 0 {
		poolSize = config.MaxActive
	}

	timeout := 5 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	var tlsConfig *tls.Config
	if config.UseSSL {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: config.SSLInsecureSkipVerify, //nolint: gosec
		}
	}

	addrs := getRedisAddrs(config)

	switch {
	case config.MasterName != "":
		log.Debug("--> [REDIS] Creating sentinel-backed failover client")

		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    config.MasterName,
			SentinelAddrs: addrs,
			Username:      config.Username,
			Password:      config.Password,
			DB:            config.Database,
			DialTimeout:   timeout,
			ReadTimeout:   timeout,
			WriteTimeout:  timeout,
			IdleTimeout:   240 * timeout,
			PoolSize:      poolSize,
			MinIdleConns:  config.MaxIdle,
			TLSConfig:     tlsConfig,
		})
	case config.EnableCluster:
		log.Debug("--> [REDIS] Creating cluster client")

		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        addrs,
			Username:     config.Username,
			Password:     config.Password,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			IdleTimeout:  240 * timeout,
			PoolSize:     poolSize,
			MinIdleConns: config.MaxIdle,
			TLSConfig:    tlsConfig,
		})
	default:
		log.Debug("--> [REDIS] Creating single-node client")

		return redis.NewClient(&redis.Options{
			Addr:         addrs[0],
			Username:     config.Username,
			Password:     config.Password,
			DB:           config.Database,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			IdleTimeout:  240 * timeout,
			PoolSize:     poolSize,
			MinIdleConns: config.MaxIdle,
			TLSConfig:    tlsConfig,
		})
	}
}

func getRedisAddrs(config *Config) []string {
	if len(config.Addrs) != 0 {
		return config.Addrs
	}

	addr := config.Host + ":" + strconv.Itoa(config.Port)

	return []string{addr}
}
