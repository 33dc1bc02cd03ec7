package descriptors

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Graph is the fixture used across the package tests: a readonly vertex
// count, labels that must match it, and cached edges of the complete graph.
type Graph struct {
	Slots
}

var edgesComputed int

var (
	graphClass = Register[*Graph](NewClass("Graph"))
	graphN     = Define(graphClass, "n", NewAttr(Int, AttrOpts[*Graph, int]{
		Validator: func(_ *Graph, n int) bool { return n >= 0 },
		Readonly:  true,
		Doc:       "number of vertices",
	}))
	graphLabels = Define(graphClass, "labels", NewAttr(SequenceOf(String), AttrOpts[*Graph, []string]{
		Validator: func(g *Graph, labels []string) bool {
			n, err := graphN.Get(g)
			return err == nil && len(labels) == n
		},
	}))
	graphEdges = Define(graphClass, "edges", NewProp(SequenceOf(TupleOf(Int, Int)), func(g *Graph) ([][2]int, error) {
		edgesComputed++
		n, err := graphN.Get(g)
		if err != nil {
			return nil, err
		}
		var edges [][2]int
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				edges = append(edges, [2]int{i, j})
			}
		}
		return edges, nil
	}, PropOpts{Doc: "edges of the complete graph"}))
)

func newGraph(n int) *Graph {
	g := &Graph{}
	if err := graphN.Set(g, n); err != nil {
		panic(err)
	}
	return g
}

// Animal and Dog exercise inheritance. Their descriptors accept any Owner so
// that parent descriptors work on child instances.
type Animal struct {
	Slots
}

type Dog struct {
	Slots
}

var (
	animalClass = NewClass("Animal")
	animalName  = Define(animalClass, "name", NewAttr[Owner, string](String))
	animalLegs  = Define(animalClass, "legs", NewAttr(Int, AttrOpts[Owner, int]{
		Validator: func(_ Owner, legs int) bool { return legs >= 0 },
	}))
	animalTitle = Define(animalClass, "title", NewProp(String, func(a Owner) (string, error) {
		name, err := animalName.Get(a)
		if err != nil {
			return "", err
		}
		return "the " + name, nil
	}))

	dogClass  = NewClass("Dog", ClassOpts{Parent: animalClass})
	dogBreed  = Define(dogClass, "breed", NewAttr[Owner, string](Literal("beagle", "collie"), AttrOpts[Owner, string]{Readonly: true}))
	dogBarks  = Define(dogClass, "barks", NewAttr[Owner, bool](nil))
	dogSerial = Define(dogClass, "serial", NewProp(UUID, func(Owner) (uuid.UUID, error) {
		return uuid.New(), nil
	}, PropOpts{Immutable: true}))
)

// Config exercises the document and environment loaders.
type Config struct {
	Slots
}

var (
	configClass   = Register[*Config](NewClass("Config"))
	configHost    = Define(configClass, "host", NewAttr[*Config, string](String))
	configPort    = Define(configClass, "port", NewAttr(Int, AttrOpts[*Config, int]{Check: checkPort}))
	configDebug   = Define(configClass, "debug", NewAttr[*Config, bool](Bool))
	configTags    = Define(configClass, "tags", NewAttr[*Config, []string](SequenceOf(String)))
	configRatio   = Define(configClass, "ratio", NewAttr[*Config, float64](Float))
	configID      = Define(configClass, "requestID", NewAttr[*Config, uuid.UUID](UUID))
	configStarted = Define(configClass, "started", NewAttr[*Config, time.Time](Time))
	configExtra   = Define(configClass, "extra", NewAttr[*Config, map[string]any](MappingOf(String, Any)))
	configAddress = Define(configClass, "address", NewProp(String, func(c *Config) (string, error) {
		return fmt.Sprintf("%s:%d", configHost.MustGet(c), configPort.MustGet(c)), nil
	}))
)

func checkPort(_ *Config, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range", port)
	}
	return nil
}
