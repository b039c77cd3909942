package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fuad-daoud/discord-cache/cache"
	"github.com/fuad-daoud/discord-cache/commands"
	"github.com/fuad-daoud/discord-cache/logger/dlog"
	"github.com/fuad-daoud/discord-cache/platform"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	RedisAddr string
)

func init() {
	_ = godotenv.Load(".env")
	RedisAddr = os.Getenv("REDIS_ADDR")
	if RedisAddr == "" {
		RedisAddr = "localhost:6379"
	}
	log.SetFlags(log.Ldate | log.Lmicroseconds)
}

func main() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     RedisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	cmd := commands.NewRedis(redisClient)
	c := cache.New(cmd)

	if err := platform.Setup(c); err != nil {
		dlog.Error("failed to set up gateway", "err", err)
		panic(err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	platform.Close()
	if err := cmd.Close(); err != nil {
		dlog.Error("failed to close commander", "err", err)
	}
	if err := redisClient.Close(); err != nil {
		dlog.Error("failed to close redis client", "err", err)
	}
	log.Println("Graceful shutdown")
}
