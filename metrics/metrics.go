package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notargets/femxlate/families"
	"github.com/notargets/femxlate/mesh"
)

const namespace = "femxlate"

// Recorder holds the gauges of one translation run in a private registry
type Recorder struct {
	Registry *prometheus.Registry

	nodes         prometheus.Gauge
	cells         *prometheus.GaugeVec
	groups        *prometheus.GaugeVec
	families      *prometheus.GaugeVec
	genericNames  *prometheus.GaugeVec
	unassigned    *prometheus.GaugeVec
	stageDuration *prometheus.GaugeVec
	stageResults  *prometheus.CounterVec

	mu     sync.Mutex
	stages []string
}

func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "nodes",
			Help: "Nodes in the translated mesh.",
		}),
		cells: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cells",
			Help: "Cells in the translated mesh by cell type.",
		}, []string{"type"}),
		groups: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "groups",
			Help: "Named groups by kind.",
		}, []string{"kind"}),
		families: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "families",
			Help: "Families in use by kind.",
		}, []string{"kind"}),
		genericNames: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "generic_family_names",
			Help: "Families whose joined name was replaced by a generic name.",
		}, []string{"kind"}),
		unassigned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "unassigned_entities",
			Help: "Entities outside every group, by kind.",
		}, []string{"kind"}),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help: "Wall time of each translation stage.",
		}, []string{"stage"}),
		stageResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stage_results_total",
			Help: "Stage outcomes by status.",
		}, []string{"stage", "status"}),
	}
	r.Registry.MustRegister(r.nodes, r.cells, r.groups, r.families, r.genericNames,
		r.unassigned, r.stageDuration, r.stageResults)
	return r
}

// Observe records the outcome of a stage
func (r *Recorder) Observe(stage string, success bool, duration time.Duration) {
	if stage == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.stageDuration.WithLabelValues(stage).Set(duration.Seconds())
	r.stageResults.WithLabelValues(stage, status).Inc()

	r.mu.Lock()
	r.stages = append(r.stages, stage)
	r.mu.Unlock()
}

// Time runs fn as a named stage and records its outcome
func (r *Recorder) Time(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.Observe(stage, err == nil, time.Since(start))
	return err
}

// Stages lists observed stages in call order
func (r *Recorder) Stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stages...)
}

func (r *Recorder) RecordMesh(m *mesh.Mesh) {
	r.nodes.Set(float64(m.Nodes.Len()))
	for _, code := range m.Cells.Types() {
		name := strconv.Itoa(int(code))
		if ct, err := m.Catalog.FindByCode(code); err == nil {
			name = ct.Name
		}
		r.cells.WithLabelValues(name).Set(float64(m.Cells.CountByType(code)))
	}
	r.groups.WithLabelValues("node").Set(float64(len(m.NodeGroups())))
	r.groups.WithLabelValues("cell").Set(float64(len(m.CellGroups())))
}

func (r *Recorder) RecordFamilies(res *families.Result) {
	if res == nil {
		return
	}
	kind := res.Kind.EntityKind().String()
	r.families.WithLabelValues(kind).Set(float64(len(res.Families)))
	r.genericNames.WithLabelValues(kind).Set(float64(res.GenericNames))
	r.unassigned.WithLabelValues(kind).Set(float64(len(res.Members(families.NoFamily))))
}

// WriteToTextfile writes the registry in the node exporter textfile format
func (r *Recorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
