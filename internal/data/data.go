package data

import (
	"imobi_tech/billing-service/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewDB,
	NewRedis,
	NewRedsync,
	NewSubscriptionRepo,
	NewPendingPaymentRepo,
	NewPlanRepo,
	NewUserRepo,
	NewBillingEventRepo,
	NewPaymentGateway,
	NewUserCacheService,
)

// Data .
type Data struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewData .
func NewData(c *conf.Bootstrap, logger log.Logger, db *gorm.DB, rdb *redis.Client) (*Data, func(), error) {
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		if err := rdb.Close(); err != nil {
			log.NewHelper(logger).Errorf("failed to close redis client: %v", err)
		}
	}
	return &Data{db: db, rdb: rdb}, cleanup, nil
}

// NewDB .
func NewDB(c *conf.Bootstrap) *gorm.DB {
	source := ""
	if c != nil && c.Data != nil {
		source = c.Data.Database.Source
	}
	if source == "" {
		panic("database source is required")
	}

	db, err := gorm.Open(mysql.Open(source), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	dbConf := c.Data.Database
	if dbConf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConf.MaxIdleConns)
	}
	if dbConf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConf.MaxOpenConns)
	}
	if dbConf.ConnMaxLifetime != "" {
		sqlDB.SetConnMaxLifetime(conf.ParseDuration(dbConf.ConnMaxLifetime, 0))
	}
	return db
}

// NewRedis .
func NewRedis(c *conf.Bootstrap) *redis.Client {
	addr := "localhost:6379"
	opts := &redis.Options{}
	if c != nil && c.Data != nil {
		redisConf := c.Data.Redis
		if redisConf.Addr != "" {
			addr = redisConf.Addr
		}
		opts.Password = redisConf.Password
		opts.DB = int(redisConf.Db)
		opts.ReadTimeout = conf.ParseDuration(redisConf.ReadTimeout, 0)
		opts.WriteTimeout = conf.ParseDuration(redisConf.WriteTimeout, 0)
		opts.DialTimeout = conf.ParseDuration(redisConf.DialTimeout, 0)
		opts.PoolSize = int(redisConf.PoolSize)
		opts.MinIdleConns = int(redisConf.MinIdleConns)
	}
	opts.Addr = addr
	return redis.NewClient(opts)
}

// NewRedsync 创建 redsync 实例 (定时任务分布式锁)
func NewRedsync(rdb *redis.Client) *redsync.Redsync {
	pool := goredis.NewPool(rdb)
	return redsync.New(pool)
}
