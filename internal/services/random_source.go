package services

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"profview/internal/domain"
)

// DemoShape sizes a generated profile.
type DemoShape struct {
	Machines      int
	UnitsPerKind  int
	TasksPerUnit  int
	Kinds         []domain.KindTag
	MeanTask      domain.Timestamp
	OverlapChance float64
}

func DefaultDemoShape() DemoShape {
	return DemoShape{
		Machines:      2,
		UnitsPerKind:  4,
		TasksPerUnit:  400,
		Kinds:         []domain.KindTag{"cpu", "gpu", "util", "chan"},
		MeanTask:      20_000,
		OverlapChance: 0.15,
	}
}

var demoLabels = []string{"init", "copy", "fill", "reduce", "map", "sweep", "solve", "exchange"}

// RandomSource generates a reproducible synthetic profile from req.Seed.
type RandomSource struct {
	shape DemoShape
}

func NewRandomSource(shape DemoShape) *RandomSource {
	return &RandomSource{shape: shape}
}

func (source *RandomSource) Load(ctx context.Context, req LoadRequest) (LoadResult, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(req.Seed))
	shape := source.shape
	var records []domain.Record
	for machine := 0; machine < shape.Machines; machine++ {
		if err := ctx.Err(); err != nil {
			return LoadResult{}, err
		}
		machineName := "node " + strconv.Itoa(machine)
		for _, kind := range shape.Kinds {
			for unit := 0; unit < shape.UnitsPerKind; unit++ {
				lane := []string{machineName, string(kind), fmt.Sprintf("%s %d", kind, unit)}
				records = append(records, source.unitRecords(rng, lane, kind)...)
			}
		}
	}
	name := req.Name
	if name == "" {
		name = fmt.Sprintf("demo-%d", req.Seed)
	}
	return LoadResult{Name: name, Records: records, Duration: time.Since(start)}, nil
}

func (source *RandomSource) unitRecords(rng *rand.Rand, lane []string, kind domain.KindTag) []domain.Record {
	shape := source.shape
	mean := max(int64(shape.MeanTask), 1)
	records := make([]domain.Record, 0, shape.TasksPerUnit)
	var cursor int64
	for task := 0; task < shape.TasksPerUnit; task++ {
		duration := 1 + rng.Int63n(2*mean)
		begin := cursor
		if task > 0 && rng.Float64() < shape.OverlapChance {
			begin -= rng.Int63n(duration)
		}
		label := demoLabels[rng.Intn(len(demoLabels))]
		records = append(records, domain.Record{
			Lane:  lane,
			Kind:  kind,
			Start: domain.Timestamp(begin),
			Stop:  domain.Timestamp(begin + duration),
			Label: label,
			Fields: []domain.Field{
				{Name: "task", Value: strconv.Itoa(task)},
				{Name: "op", Value: label},
			},
		})
		cursor = max(cursor, begin+duration) + rng.Int63n(mean/2+1)
	}
	return records
}
