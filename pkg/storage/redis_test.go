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

package storage

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRedisAddrs(t *testing.T) {
	assert.Equal(t, []string{"127.0.0.1:6379"}, getRedisAddrs(&Config{Host: "127.0.0.1", Port: 6379}))
	assert.Equal(t, []string{"a:1", "b:2"}, getRedisAddrs(&Config{Host: "ignored", Addrs: []string{"a:1", "b:2"}}))
}

func TestNewRedisClient_Modes(t *testing.T) {
	single := NewRedisClient(&Config{Host: "127.0.0.1", Port: 6379})
	defer single.Close()
	_, ok := single.(*redis.Client)
	assert.True(t, ok)

	cluster := NewRedisClient(&Config{Addrs: []string{"127.0.0.1:7000"}, EnableCluster: true})
	defer cluster.Close()
	_, ok = cluster.(*redis.ClusterClient)
	assert.True(t, ok)
}

func TestNewRedisClient_Miniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client := NewRedisClient(&Config{Host: mr.Host(), Port: port})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	require.NoError(t, client.Set(ctx, "light:k", "v", 0).Err())

	got, err := mr.Get("light:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
