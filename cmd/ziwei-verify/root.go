package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iabetor/ziwei-verify/internal/chart"
	"github.com/iabetor/ziwei-verify/internal/config"
	"github.com/iabetor/ziwei-verify/internal/iztro"
	"github.com/iabetor/ziwei-verify/internal/logger"
	"github.com/iabetor/ziwei-verify/internal/report"
)

// engineFactory 根据配置创建排盘引擎，测试中替换为假引擎。
var engineFactory = func(cfg config.EngineConfig) chart.Engine {
	return iztro.NewEngine(cfg.NodePath, cfg.ModuleDir, cfg.Timeout())
}

// NewRootCmd 创建根命令。
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		crossCheck bool
	)

	cmd := &cobra.Command{
		Use:   "ziwei-verify",
		Short: "逐小时调用 iztro 排盘并打印结果供人工核对",
		Long: `ziwei-verify 对 1989-10-17 男命按 hour=11、12、13 分别调用 iztro 排盘，
打印五行局、命宫/身宫地支、农历、四柱、父母宫以及十二宫主星。

日期、小时、性别等参数可通过 --config 指定的 YAML 文件覆盖。
--crosscheck 用 lunar-go 独立计算农历和四柱并与引擎结果对照。`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if crossCheck {
				cfg.Report.CrossCheck = true
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "配置文件路径，为空则使用内置默认值")
	cmd.Flags().BoolVar(&crossCheck, "crosscheck", false, "追加 lunar-go 历法校验")

	cmd.AddCommand(NewVersionCmd())
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	opts := report.Options{
		Date:       cfg.Report.Date,
		Gender:     chart.Gender(cfg.Report.Gender),
		IsLunar:    *cfg.Report.IsLunar,
		Locale:     cfg.Report.Locale,
		CrossCheck: cfg.Report.CrossCheck,
	}
	g := report.NewGenerator(engineFactory(cfg.Engine), out, opts)
	return g.Run(ctx, cfg.Report.Hours)
}

// Execute 运行根命令，失败时以状态码 1 退出。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
