package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imobi_tech/billing-service/internal/biz"
	"imobi_tech/billing-service/internal/conf"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/robfig/cron/v3"
	_ "go.uber.org/automaxprocs"
)

var (
	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

// CronApp Cron 应用结构
type CronApp struct {
	billingUsecase *biz.BillingUsecase
}

func main() {
	flag.Parse()

	// 初始化配置
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	if err := bc.Validate(); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}

	// 初始化应用
	app, cleanup, err := wireApp(&bc)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// 创建定时任务调度器（支持秒级调度）
	cronScheduler := cron.New(cron.WithSeconds())

	// 1. 过期待支付意向清理 - 每 5 分钟执行
	_, err = cronScheduler.AddFunc("0 */5 * * * *", func() {
		log.Println("[CRON] Starting expired pending payment sweep...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		count, err := app.billingUsecase.SweepExpired(ctx)
		if err != nil {
			log.Printf("[CRON] Error sweeping expired pending payments: %v", err)
		} else {
			log.Printf("[CRON] Swept %d expired pending payments", count)
		}
		log.Println("[CRON] Finished expired pending payment sweep")
	})
	if err != nil {
		log.Printf("Failed to add sweep job: %v", err)
	}

	// 2. 滞留支付对账 - 每 10 分钟执行
	_, err = cronScheduler.AddFunc("0 */10 * * * *", func() {
		log.Println("[CRON] Starting stuck payment reconciliation...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := app.billingUsecase.ReconcilePending(ctx)
		if err != nil {
			log.Printf("[CRON] Error reconciling stuck payments: %v", err)
		} else {
			log.Printf("[CRON] Reconciliation done: checked=%d, completed=%d", result.Checked, result.Completed)
		}
		log.Println("[CRON] Finished stuck payment reconciliation")
	})
	if err != nil {
		log.Printf("Failed to add reconciliation job: %v", err)
	}

	// 启动定时任务
	cronScheduler.Start()
	log.Println("========================================")
	log.Println("Cron jobs started successfully")
	log.Println("Scheduled jobs:")
	log.Println("  - Expiry sweep:      Every 5 minutes")
	log.Println("  - Reconciliation:    Every 10 minutes")
	log.Println("========================================")

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	// 停止定时任务
	ctx := cronScheduler.Stop()
	select {
	case <-ctx.Done():
		log.Println("Cron jobs stopped gracefully")
	case <-time.After(5 * time.Second):
		log.Println("Cron jobs forced to stop after timeout")
	}
}
