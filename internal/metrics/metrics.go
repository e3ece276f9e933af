package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// チェックアウト結果
const (
	CheckoutSucceeded = "succeeded"
	CheckoutFailed    = "failed"
	CheckoutRejected  = "rejected" // 未ログイン・入力不備・空カート
)

type Metrics struct {
	checkouts     *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
}

// New はカウンタを reg に登録する。
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkouts_total",
			Help:      "Checkout submissions by outcome.",
		}, []string{"outcome"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation and result.",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(m.checkouts, m.cartMutations)
	return m
}

// nil でも呼べる（テストでは省略する）
func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CartMutation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cartMutations.WithLabelValues(op, result).Inc()
}
