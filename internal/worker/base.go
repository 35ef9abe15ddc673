package worker

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// BaseWorker содержит общую логику stream-воркеров: имя, consumer group,
// имя consumer и сигнал остановки.
type BaseWorker struct {
	name          string
	stream        string
	consumerGroup string
	consumerName  string
	logger        *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewBaseWorker создает BaseWorker. Пустое consumerName заменяется на hostname:
// имя должно переживать перезапуск, иначе pending сообщения прошлого запуска
// остаются за старым consumer.
func NewBaseWorker(name, stream, consumerGroup, consumerName string, logger *zap.Logger) *BaseWorker {
	if consumerName == "" {
		consumerName = defaultConsumerName(name)
	}

	return &BaseWorker{
		name:          name,
		stream:        stream,
		consumerGroup: consumerGroup,
		consumerName:  consumerName,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

func (w *BaseWorker) Stream() string {
	return w.stream
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

func (w *BaseWorker) ConsumerName() string {
	return w.consumerName
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Stop закрывает канал остановки; повторный вызов ничего не делает
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true

	return nil
}

func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

func defaultConsumerName(workerName string) string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return fmt.Sprintf("%s-consumer", workerName)
	}
	return hostname
}
