package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"post-board/cmd/activity/handler"
	"post-board/internal/logger"
	"post-board/config"
	"post-board/db"
	"post-board/eventbus"
	"post-board/repositories"
)

// activity 워커는 API 가 발행한 post/user 이벤트를 구독해 activity 컬렉션에 기록한다.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init("post-board-activity", cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brokers := cfg.Kafka.BootstrapServers
	if brokers == "" {
		logger.Log.Error("KAFKA_BOOTSTRAP_SERVERS is required for the activity worker")
		os.Exit(1)
	}

	// MongoDB 는 첫 이벤트 처리 시 연결된다. 연결 실패는 재시도 후 DLQ 로 넘어간다.
	mongoDB := db.New(cfg.Mongo)
	store := repositories.NewActivityRepository(mongoDB)

	// EventBus 초기화 및 토픽 보장
	topics := eventbus.NewTopics(cfg.Kafka.TopicPrefix)
	if cfg.Kafka.EnsureTopics {
		if err := eventbus.EnsureTopics(brokers, append(topics.All(), topics.DLQs()...), cfg.Kafka.Partitions); err != nil {
			logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
		}
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	eventHandler := handler.NewEventHandlers(store)

	logger.InfoWithFields("starting activity worker", logger.Fields{
		"group_id": cfg.Kafka.GroupID,
	})

	// Graceful shutdown 설정
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := bus.Subscribe(ctx, cfg.Kafka.GroupID, topics.All(), eventHandler.Handle)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Errorf("eventbus subscribe error: %v", err)
			select {
			case sigChan <- syscall.SIGTERM:
			default:
			}
		}
	}()

	// 종료 신호 대기
	<-sigChan
	logger.Log.Info("received shutdown signal, shutting down activity worker...")

	cancel()
	wg.Wait()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := mongoDB.Close(closeCtx); err != nil {
		logger.Log.Errorf("mongo disconnect: %v", err)
	}

	logger.Log.Info("activity worker stopped")
}
