package xrun

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// HTTPServerInterface *http.Server 满足此接口
type HTTPServerInterface interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServer 把 server 包装成服务函数：ctx 取消时 Shutdown，
// shutdownTimeout <= 0 表示等待所有在途请求结束。
func HTTPServer(server HTTPServerInterface, shutdownTimeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if server == nil {
			return ErrNilServer
		}
		shutdownErr := make(chan error, 1)
		listenDone := make(chan struct{})

		go func() {
			select {
			case <-ctx.Done():
				sctx := context.Background()
				if shutdownTimeout > 0 {
					var cancel context.CancelFunc
					sctx, cancel = context.WithTimeout(sctx, shutdownTimeout)
					defer cancel()
				}
				shutdownErr <- server.Shutdown(sctx)
			case <-listenDone:
			}
		}()

		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			// 区分 ctx 驱动的关闭与外部直接 Shutdown
			select {
			case e := <-shutdownErr:
				return e
			case <-ctx.Done():
				return <-shutdownErr
			default:
				close(listenDone)
				return nil
			}
		}
		close(listenDone)
		return err
	}
}
