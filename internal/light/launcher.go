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

package light

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/maxiaolu1981/light/internal/light/backend"
	"github.com/maxiaolu1981/light/internal/light/backend/drivers"
	"github.com/maxiaolu1981/light/internal/light/config"
	"github.com/maxiaolu1981/light/internal/pkg/changefeed"
	"github.com/maxiaolu1981/light/internal/pkg/metrics"
	genericapiserver "github.com/maxiaolu1981/light/internal/pkg/server"
	"github.com/maxiaolu1981/light/pkg/log"
)

// launcher 启动流程：加载驱动、创建服务、注册路由、运行，每步只执行一次.
type launcher struct {
	loadDriver    func(ctx context.Context, name, store string) (backend.Driver, error)
	newServer     func(cfg *config.Config) (*genericapiserver.GenericAPIServer, error)
	installRoutes func(g *gin.Engine, d backend.Driver)
	runServer     func(ctx context.Context, srv *genericapiserver.GenericAPIServer, d backend.Driver, cfg *config.Config) error
}

func newLauncher(cfg *config.Config) *launcher {
	registry := drivers.NewRegistry(cfg.Options)

	return &launcher{
		loadDriver: func(ctx context.Context, name, store string) (backend.Driver, error) {
			d, err := registry.Load(ctx, name, store)
			if err != nil {
				return nil, err
			}

			return decorate(d, store, cfg), nil
		},
		newServer: createAPIServer,
		installRoutes: func(g *gin.Engine, d backend.Driver) {
			installController(g, d, cfg.JwtOptions.Key)
		},
		runServer: runServer,
	}
}

// decorate 按配置为驱动加上指标与变更事件.
func decorate(d backend.Driver, store string, cfg *config.Config) backend.Driver {
	if cfg.FeatureOptions.EnableMetrics {
		d = metrics.Instrument(d)
	}
	if cfg.KafkaOptions.Enabled() {
		log.Infow("publishing document changes", "brokers", cfg.KafkaOptions.Brokers, "topic", cfg.KafkaOptions.Topic)
		d = changefeed.Publish(d, store, changefeed.NewKafkaPublisher(cfg.KafkaOptions))
	}

	return d
}

func (l *launcher) launch(ctx context.Context, cfg *config.Config) error {
	d, err := l.loadDriver(ctx, cfg.Launch.DBDriver, cfg.Launch.DBStore)
	if err != nil {
		log.Errorf("load storage driver %s failed: %s", cfg.Launch.DBDriver, err.Error())

		return err
	}

	srv, err := l.newServer(cfg)
	if err != nil {
		_ = d.Close()

		return err
	}

	l.installRoutes(srv.Engine, d)

	return l.runServer(ctx, srv, d, cfg)
}

// createAPIServer 把选项转换为 GenericAPIServer 配置并创建服务.
func createAPIServer(cfg *config.Config) (*genericapiserver.GenericAPIServer, error) {
	genericConfig, err := buildGenericConfig(cfg)
	if err != nil {
		return nil, err
	}

	return genericConfig.Complete().New()
}

func buildGenericConfig(cfg *config.Config) (genericConfig *genericapiserver.Config, lastErr error) {
	genericConfig = genericapiserver.NewConfig()
	if lastErr = cfg.GenericServerRunOptions.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	if lastErr = cfg.FeatureOptions.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	if lastErr = cfg.InsecureServing.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	if lastErr = cfg.Worker.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	return
}
