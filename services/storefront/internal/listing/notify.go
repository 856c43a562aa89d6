package listing

import "sync"

const (
	TitleError = "Lỗi"

	MsgFetchUnsuccessful = "Không thể lấy danh sách sản phẩm"
	MsgFetchFailed       = "Có lỗi xảy ra khi lấy danh sách sản phẩm"
	MsgSignInRequired    = "Vui lòng đăng nhập để mua hàng"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a non-blocking toast shown to the user.
type Notification struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

func errorNotification(description string) Notification {
	return Notification{Variant: VariantDestructive, Title: TitleError, Description: description}
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Inbox collects notifications until they are drained by a renderer.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

func (b *Inbox) Notify(n Notification) {
	b.mu.Lock()
	b.items = append(b.items, n)
	b.mu.Unlock()
}

// Drain returns the pending notifications and empties the inbox.
func (b *Inbox) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}

func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
