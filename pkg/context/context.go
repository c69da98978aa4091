// Package context 持有一次命令执行所需的共享状态：配置、viper 实例与日志记录器
package context

import (
	"context"

	"github.com/spf13/viper"
	"github.com/yeisme/codescope/pkg/configs"
	"github.com/yeisme/codescope/pkg/utils/log"
)

// GlobalFlags 根命令的全局标志
type GlobalFlags struct {
	ConfigPath    string
	Debug         bool
	Verbose       bool
	Quiet         bool
	CPUProfile    string
	Trace         string
	VersionEnable bool
}

// AppContext 命令执行上下文
type AppContext struct {
	context.Context
	Config *configs.Config // 应用配置
	Viper  *viper.Viper    // 原始配置数据，供 config 子命令使用
	Logger log.Logger      // 日志记录器
}

// InitAppContext 加载配置并初始化日志，命令行标志覆盖配置文件中的 app 段
func InitAppContext(ctx context.Context, flags GlobalFlags) (*AppContext, error) {
	config, v, err := configs.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if flags.Debug {
		config.App.Debug = true
	}
	if flags.Verbose {
		config.App.Verbose = true
	}
	if flags.Quiet {
		config.App.Quiet = true
	}

	logger := log.InitLogger(ctx, &config.Log, &config.App)

	return &AppContext{
		Context: ctx,
		Config:  config,
		Viper:   v,
		Logger:  logger,
	}, nil
}
