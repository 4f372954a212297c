// Package metrics define los colectores Prometheus de los almacenes y del login.
// Viven en un paquete propio para que store/memory y auth no dependan entre sí.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implementa memory.Recorder sobre sus propios colectores, de modo que
// cada instancia (y cada test) puede registrarse en un Registry distinto.
type Recorder struct {
	OpsTotal        *prometheus.CounterVec
	CollisionsTotal *prometheus.CounterVec
	RecordsGauge    *prometheus.GaugeVec
	LoginsTotal     *prometheus.CounterVec
}

// New crea los colectores sin registrarlos.
func New() *Recorder {
	return &Recorder{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Operaciones sobre los almacenes en memoria",
		}, []string{"store", "op", "result"}),
		CollisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_collisions_total",
			Help: "Colisiones de identificador resueltas con una variante",
		}, []string{"store"}),
		RecordsGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "store_records",
			Help: "Registros presentes en cada almacén",
		}, []string{"store"}),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Intentos de inicio de sesión por resultado",
		}, []string{"result"}),
	}
}

// Register registra los colectores en reg (o en el default si es nil).
// Un colector ya registrado no es error.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{r.OpsTotal, r.CollisionsTotal, r.RecordsGauge, r.LoginsTotal} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

func (r *Recorder) Operation(store, op, result string) {
	r.OpsTotal.WithLabelValues(store, op, result).Inc()
}

func (r *Recorder) Collision(store string) {
	r.CollisionsTotal.WithLabelValues(store).Inc()
}

func (r *Recorder) Records(store string, n int) {
	r.RecordsGauge.WithLabelValues(store).Set(float64(n))
}

// Login cuenta un intento: "ok", "unauthorized", "locked", "not_found".
func (r *Recorder) Login(result string) {
	r.LoginsTotal.WithLabelValues(result).Inc()
}
