package xmongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/resilience/xbreaker"
)

// NewBreaker 存储默认熔断器：连续 5 次基础设施错误熔断 30 秒。
// 业务结果（未找到、余额冲突、重复键）与调用方取消不计为失败。
func NewBreaker(logger xlog.Logger) *xbreaker.Breaker {
	return xbreaker.New(component,
		xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(5)),
		xbreaker.WithTimeout(30*time.Second),
		xbreaker.WithSuccessPolicy(notInfraError),
		xbreaker.WithLogger(logger),
	)
}

func notInfraError(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, mongo.ErrNoDocuments),
		errors.Is(err, xmeal.ErrOrderNotFound),
		errors.Is(err, xmeal.ErrBalanceConflict),
		errors.Is(err, xmeal.ErrInvalidTransition),
		mongo.IsDuplicateKeyError(err):
		return true
	}
	return false
}
