// mealadmin 是订餐后台的管理服务与运维命令行。
//
// 用法:
//
//	mealadmin [全局选项] <命令> [命令参数]
//
// 命令:
//
//	serve      启动管理 HTTP 服务（--demo 使用内存演示数据）
//	stats      计算一次仪表盘数据并以 JSON 输出
//	version    显示版本信息
//
// 退出码:
//
//	0: 成功
//	1: 运行失败（存储不可用、监听失败等）
//	2: 参数或配置错误
//
// 示例:
//
//	mealadmin serve --config /etc/mealkit/mealadmin.yaml
//	MEALKIT_ADMIN_TOKEN=dev mealadmin serve --demo
//	mealadmin stats --demo --limit 5
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/mealkit/pkg/business/xstats"
)

// 版本信息，构建时通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "配置文件路径（.yaml/.yml/.json）",
		Sources: cli.EnvVars("MEALKIT_CONFIG"),
	}
}

func demoFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "demo",
		Usage: "使用内存存储与演示数据，不连接 MongoDB",
	}
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "mealadmin",
		Usage:     "订餐后台管理服务",
		Version:   versionString(),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "启动管理 HTTP 服务",
				Flags: []cli.Flag{configFlag(), demoFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return serve(ctx, cmd.String("config"), cmd.Bool("demo"), stderr)
				},
			},
			{
				Name:  "stats",
				Usage: "计算一次仪表盘数据并输出 JSON",
				Flags: []cli.Flag{
					configFlag(),
					demoFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "最近订单条数（1-100）",
						Value: xstats.DefaultRecentLimit,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return printStats(ctx, cmd.String("config"), cmd.Bool("demo"), cmd.Int("limit"), stdout, stderr)
				},
			},
			{
				Name:  "version",
				Usage: "显示版本信息",
				Action: func(_ context.Context, _ *cli.Command) error {
					_, err := fmt.Fprintln(stdout, "mealadmin", versionString())
					return err
				},
			},
		},
		// 设计决策: 禁止 urfave/cli 直接 os.Exit，退出码统一由 run 映射。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
