package metrics

import (
	"log"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

type notificationObserver struct {
	next order.Observer
}

// NotificationObserver counts notification outcomes and then logs them.
func NotificationObserver(logger *log.Logger) order.Observer {
	return notificationObserver{next: order.LogObserver(logger)}
}

func (n notificationObserver) Observe(sink string, change order.Change, orderID string, elapsed time.Duration, err error) {
	NotificationsTotal.WithLabelValues(sink, string(change), result(err)).Inc()
	NotificationDuration.WithLabelValues(sink).Observe(elapsed.Seconds())
	n.next.Observe(sink, change, orderID, elapsed, err)
}
