// Package health reports serving readiness.
package health

// EngineStatus is the consumer interface over the query engine.
type EngineStatus interface {
	Ready() bool
	RecordCount() int
	Model() string
}

// Report is the aggregated readiness outcome.
type Report struct {
	Healthy       bool
	RecordsLoaded int
	Model         string
}

// Service coordinates readiness checks.
type Service struct {
	engine EngineStatus
}

// New creates a Service.
func New(engine EngineStatus) *Service {
	return &Service{engine: engine}
}

// Check reports whether the engine has a loaded bundle and how many records
// it serves. The process is unhealthy, but alive, without one.
func (s *Service) Check() Report {
	return Report{
		Healthy:       s.engine.Ready(),
		RecordsLoaded: s.engine.RecordCount(),
		Model:         s.engine.Model(),
	}
}
