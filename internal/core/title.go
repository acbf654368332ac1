package core

import "sync"

// TitleRegister holds the header title. Last writer wins; leaving a page does not
// clear it.
type TitleRegister struct {
	mu    sync.RWMutex
	title string
}

func (t *TitleRegister) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

func (t *TitleRegister) SetTitle(title string) {
	t.mu.Lock()
	t.title = title
	t.mu.Unlock()
}
