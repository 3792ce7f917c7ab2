package worker

import "sync"

// Task 是交給 pool 執行的一個工作單位
type Task func()

// Pool 是服務內共用的背景工作池
type Pool interface {
	Submit(Task)
	Stop()
}

const defaultQueueSize = 16

// NewPool 建立 n 個 worker 的 pool，n<=0 時視為 1
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, defaultQueueSize)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.run()
	}
	return p
}

type pool struct {
	jobs chan Task
	wg   sync.WaitGroup
}

func (p *pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job == nil {
			continue
		}
		p.invoke(job)
	}
}

// 單一任務 panic 不拖垮整個 pool
func (p *pool) invoke(job Task) {
	defer func() { _ = recover() }()
	job()
}

func (p *pool) Submit(t Task) {
	p.jobs <- t
}

// Stop 關閉佇列並等 worker 跑完手上與排隊中的工作
func (p *pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
