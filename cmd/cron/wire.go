//go:build wireinject
// +build wireinject

package main

import (
	"imobi_tech/billing-service/internal/biz"
	"imobi_tech/billing-service/internal/conf"
	"imobi_tech/billing-service/internal/data"

	"github.com/google/wire"
)

// wireApp 初始化应用
func wireApp(*conf.Bootstrap) (*CronApp, func(), error) {
	panic(wire.Build(
		newLogger,
		data.ProviderSet,
		biz.ProviderSet,
		wire.Struct(new(CronApp), "*"),
	))
}
