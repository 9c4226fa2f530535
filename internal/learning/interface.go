package learning

import "context"

// Storeは学習済みバンドルを永続化するインターフェースです。
type Store interface {
	// Saveはバンドルを原子的に保存します。失敗しても以前のバンドルは残ります。
	Save(ctx context.Context, b *Bundle) error
}

// Activatorは保存済みバンドルを推論に公開します。
type Activator interface {
	Activate(b *Bundle) error
}

// EventPublisherは学習イベントを配信するインターフェースです。
type EventPublisher interface {
	Publish(ctx context.Context, ev *Event) error
}
