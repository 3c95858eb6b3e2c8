package errx

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to AppError with appropriate status codes.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return &AppError{Err: err, Status: http.StatusNotFound, Kind: KindRedis, Message: RedisNotFoundMessage}
	}

	return &AppError{Err: err, Status: http.StatusBadGateway, Kind: KindRedis, Message: RedisErrorMessage}
}
