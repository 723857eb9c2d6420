package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SMSSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smsauth_sms_sent_total",
		Help: "SMS send attempts by result.",
	}, []string{"result"})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smsauth_registrations_total",
		Help: "Completed registrations.",
	})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smsauth_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
)
