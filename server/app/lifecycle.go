// Package app 定義應用程式根目錄用以管理長期運行元件的最小生命週期抽象。
package app

import "context"

// Component 抽象任何「可啟動 / 可關閉」的長生命週期元件。
// - Run() 應該是阻塞呼叫，直到元件停止為止（正常或錯誤）。
// - Shutdown(ctx) 用於要求優雅關閉；實作方應該尊重 ctx deadline/cancel。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Until 把「等待關閉訊號 + 關閉函數」包成 Component。
// Run 阻塞到 done 關閉；Shutdown 呼叫 stop。適合沒有自己主迴圈的資源（例如 worker pool）。
func Until(done <-chan struct{}, stop func()) Component {
	return &until{done: done, stop: stop}
}

type until struct {
	done <-chan struct{}
	stop func()
}

func (u *until) Run() error {
	<-u.done
	return nil
}

func (u *until) Shutdown(context.Context) error {
	u.stop()
	return nil
}
