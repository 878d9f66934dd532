package connection

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const retryDelay = 5 * time.Second

// ConnectGORMWithRetry opens the postgres pool, retrying so the service
// survives a database that comes up after it does.
func ConnectGORMWithRetry(host, user, password, dbname, port, sslmode string, maxRetries int) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode,
	)

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		db, err := open(dsn)
		if err == nil {
			log.Println("connected to postgres")
			return db, nil
		}
		lastErr = err
		log.Printf("postgres connect failed (%d/%d): %v", i, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("database connection failed after %d retries: %w", maxRetries, lastErr)
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if err := rdb.Ping(context.Background()).Err(); err == nil {
			log.Println("connected to redis")
			return rdb, nil
		} else {
			lastErr = err
		}
		log.Printf("redis connect failed (%d/%d)", i, maxRetries)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("redis connection failed after %d retries: %w", maxRetries, lastErr)
}
