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
package app 基于 cobra/viper 的命令行应用框架.

核心流程
NewApp 通过函数式选项收集配置，构建 cobra 根命令：
  - 把 CliOptions 的分组标志合并进命令，并追加 global 分组（--config、--version、--help）；
  - 设置按分组打印的帮助模板。
执行时 runCommand 依次：打印工作目录与标志、处理 --version、
viper 绑定标志并反序列化到选项、Complete/Validate/打印选项，最后调用 RunFunc。
Run 在出错时打印红色错误信息并以状态码 1 退出。
*/
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/term"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/version"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/version/verflag"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	cliflag "github.com/maxiaolu1981/light/pkg/cli/flag"
	"github.com/maxiaolu1981/light/pkg/log"
)

var progressMessage = color.GreenString("==>")

// App 命令行应用.
type App struct {
	basename    string
	name        string
	description string
	envPrefix   string
	options     CliOptions
	runFunc     RunFunc
	silence     bool
	noConfig    bool
	commands    []*Command
	args        cobra.PositionalArgs
	cmd         *cobra.Command
}

// Option 应用的函数式选项.
type Option func(*App)

// RunFunc 应用启动回调.
type RunFunc func(basename string) error

// WithOptions 设置应用的命令行选项.
func WithOptions(opt CliOptions) Option {
	return func(a *App) {
		a.options = opt
	}
}

// WithRunFunc 设置应用启动回调.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithDescription 设置命令的长描述.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithEnvPrefix 设置环境变量前缀，同时决定默认配置目录（~/.<prefix>、/etc/<prefix>）.
func WithEnvPrefix(prefix string) Option {
	return func(a *App) {
		a.envPrefix = prefix
	}
}

// WithSilence 静默模式，不打印启动、版本与配置信息.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithNoConfig 不提供 --config 标志，也不经过 viper.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// WithDefaultValidArgs 不接受任何位置参数.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if len(arg) > 0 {
					return fmt.Errorf("%q does not take any arguments, got %q", cmd.CommandPath(), args)
				}
			}

			return nil
		}
	}
}

// WithCommands 添加子命令.
func WithCommands(cmds ...*Command) Option {
	return func(a *App) {
		a.commands = append(a.commands, cmds...)
	}
}

// NewApp 创建应用.
func NewApp(name string, basename string, opts ...Option) *App {
	a := &App{
		name:      name,
		basename:  basename,
		envPrefix: basename,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

func (a *App) buildCommand() {
	cmd := cobra.Command{
		Use:   FormatBaseName(a.basename),
		Short: a.name,
		Long:  a.description,
		// 错误由 Run 统一打印
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true
	cmd.Flags().SetNormalizeFunc(cliflag.WordSepNormalizeFunc)

	for _, command := range a.commands {
		cmd.AddCommand(command.cobraCommand())
	}
	if len(a.commands) > 0 {
		cmd.SetHelpCommand(helpCommand(FormatBaseName(a.basename)))
	}

	if a.runFunc != nil {
		cmd.RunE = a.runCommand
	}

	var namedFlagSets cliflag.NamedFlagSets
	if a.options != nil {
		namedFlagSets = a.options.Flags()
	}

	globalFlagSet := namedFlagSets.FlagSet("global")
	verflag.AddFlags(globalFlagSet)
	if !a.noConfig {
		addConfigFlag(a.basename, a.envPrefix, globalFlagSet)
	}
	addHelpFlag(cmd.Name(), globalFlagSet)

	fs := cmd.Flags()
	for _, name := range namedFlagSets.Order {
		fs.AddFlagSet(namedFlagSets.FlagSets[name])
	}

	addCmdTemplate(&cmd, namedFlagSets)
	a.cmd = &cmd
}

// Command 返回根命令.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run 执行应用，出错时以状态码 1 退出.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func (a *App) runCommand(cmd *cobra.Command, args []string) error {
	printWorkingDir()
	cliflag.PrintFlags(cmd.Flags())

	verflag.PrintAndExitIfRequested()

	if err := a.loadOptions(cmd.Flags()); err != nil {
		return err
	}
	a.printBanner()

	if a.options != nil {
		if err := a.applyOptionRules(); err != nil {
			return err
		}
	}

	if a.runFunc == nil {
		return nil
	}

	return a.runFunc(a.basename)
}

// loadOptions 合并标志、环境变量与配置文件后写回选项，优先级依次降低.
func (a *App) loadOptions(fs *pflag.FlagSet) error {
	if a.noConfig || a.options == nil {
		return nil
	}

	if err := viper.BindPFlags(fs); err != nil {
		return err
	}

	return viper.Unmarshal(a.options)
}

func (a *App) printBanner() {
	if a.silence {
		return
	}

	log.Infof("%v Starting %s ...", progressMessage, a.name)
	log.Infof("%v Version: `%s`", progressMessage, version.Get().ToJSON())
	if used := viper.ConfigFileUsed(); !a.noConfig && used != "" {
		log.Infof("%v Config file used: `%s`", progressMessage, used)
		printConfig()
	}
}

func (a *App) applyOptionRules() error {
	if o, ok := a.options.(CompleteableOptions); ok {
		if err := o.Complete(); err != nil {
			return err
		}
	}

	if errs := a.options.Validate(); len(errs) != 0 {
		return errors.NewAggregate(errs)
	}

	if o, ok := a.options.(PrintableOptions); ok && !a.silence {
		log.Infof("%v Config: `%s`", progressMessage, o.String())
	}

	return nil
}

func printWorkingDir() {
	wd, _ := os.Getwd()
	log.Infof("%v WorkingDir: %s", progressMessage, wd)
}

func addCmdTemplate(cmd *cobra.Command, namedFlagSets cliflag.NamedFlagSets) {
	usageFmt := "Usage:\n  %s\n"
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cmd.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Fprintf(cmd.OutOrStderr(), usageFmt, cmd.UseLine())
		if cmd.HasAvailableSubCommands() {
			fmt.Fprintf(cmd.OutOrStderr(), "\n%s\n", color.CyanString("Available Commands:"))
			for _, sub := range cmd.Commands() {
				if sub.IsAvailableCommand() {
					fmt.Fprintf(cmd.OutOrStderr(), "  %s %s\n", color.GreenString(padRight(sub.Name(), sub.NamePadding())), sub.Short)
				}
			}
		}
		cliflag.PrintSections(cmd.OutOrStderr(), namedFlagSets, cols)

		return nil
	})
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n"+usageFmt, cmd.Long, cmd.UseLine())
		cliflag.PrintSections(cmd.OutOrStdout(), namedFlagSets, cols)
	})
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}

	return s + strings.Repeat(" ", n-len(s))
}
