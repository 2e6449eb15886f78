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

/*
Package light 是 illuminate 的入口：解析 -H/-P/-W/-D 等参数，按 driver:store 加载存储驱动，
注册 /v1/documents 路由，并以 pre-fork 方式启动多个 worker 进程.
*/
package light

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"

	"github.com/maxiaolu1981/light/internal/light/backend/drivers"
	"github.com/maxiaolu1981/light/internal/light/config"
	"github.com/maxiaolu1981/light/internal/light/options"
	"github.com/maxiaolu1981/light/pkg/app"
	"github.com/maxiaolu1981/light/pkg/log"
)

const commandDesc = `Light serves JSON documents over HTTP from a pluggable storage backend.

The backend is chosen with --driver driver:store, for example disk:demo_db or
mysql:demo_db. Workers are separate processes sharing the listening port.`

// NewApp 创建 illuminate 命令.
func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	application := app.NewApp("Light", basename,
		app.WithOptions(opts),
		app.WithDescription(commandDesc),
		app.WithEnvPrefix("LIGHT"),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
		app.WithCommands(newDriversCommand()),
	)

	return application
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		log.Init(opts.Log)
		defer log.Flush()

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}

		return Run(context.Background(), cfg)
	}
}

// Run 按配置启动服务.
func Run(ctx context.Context, cfg *config.Config) error {
	return newLauncher(cfg).launch(ctx, cfg)
}

func newDriversCommand() *app.Command {
	return app.NewCommand("drivers", "List the storage drivers and what the store part of --driver means for each.",
		app.WithCommandRunFunc(func(args []string) error {
			table := uitable.New()
			table.Separator = "  "
			table.AddRow("DRIVER", "STORE")
			for _, info := range drivers.Builtin {
				table.AddRow(info.Name, info.Store)
			}
			fmt.Println(table)

			return nil
		}),
	)
}
