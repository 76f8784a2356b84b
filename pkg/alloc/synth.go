package alloc

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/OpenTraceLab/fpgapin/pkg/pcf"
)

// SynthOptions controls constraint synthesis.
type SynthOptions struct {
	// DefinitionOrder keeps pins in port definition order instead of a
	// random permutation.
	DefinitionOrder bool
	// Seed seeds the permutation so runs can be reproduced.
	Seed uint64
	// EmitPtRow writes -pt_row on every generated line.
	EmitPtRow bool
	// MaxOverlap caps budget escalation. Zero means MaxOverlap.
	MaxOverlap int
	Logger     *slog.Logger
}

// SynthResult summarizes a synthesis run.
type SynthResult struct {
	Commands []pcf.Command
	Warnings int
	Failures map[diag.Code]int
	Skipped  []string
	AXIUsed  int
}

// Synthesizer drives the engine over all design pins and writes the
// resulting constraints.
type Synthesizer struct {
	engine *Engine
	opts   SynthOptions
	log    *slog.Logger
}

// NewSynthesizer wraps an engine.
func NewSynthesizer(e *Engine, opts SynthOptions) *Synthesizer {
	if opts.MaxOverlap <= 0 {
		opts.MaxOverlap = MaxOverlap
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Synthesizer{engine: e, opts: opts, log: log}
}

type pendingPin struct {
	name  string
	input bool
}

// order lists every input, then every output. Each direction is shuffled
// on its own so inputs always precede outputs.
func (s *Synthesizer) order(inputs, outputs []string) []pendingPin {
	in := make([]pendingPin, len(inputs))
	for i, n := range inputs {
		in[i] = pendingPin{name: n, input: true}
	}
	out := make([]pendingPin, len(outputs))
	for i, n := range outputs {
		out[i] = pendingPin{name: n}
	}
	if !s.opts.DefinitionOrder {
		rng := rand.New(rand.NewPCG(s.opts.Seed, s.opts.Seed^0x9e3779b97f4a7c15))
		rng.Shuffle(len(in), func(i, j int) { in[i], in[j] = in[j], in[i] })
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return append(in, out...)
}

// Run allocates every pin and writes one set_io line per success to each
// writer. A failed pin raises the direction's overlap budget and is retried
// while the budget is below the ceiling and no AXI pins remain; otherwise it
// is skipped and counted.
func (s *Synthesizer) Run(inputs, outputs []string, writers ...io.Writer) (*SynthResult, error) {
	res := &SynthResult{Failures: make(map[diag.Code]int)}
	pws := make([]*pcf.Writer, len(writers))
	for i, w := range writers {
		pws[i] = pcf.NewWriter(w, s.opts.EmitPtRow)
		if err := pws[i].Comment(fmt.Sprintf("generated for %d inputs and %d outputs", len(inputs), len(outputs))); err != nil {
			return nil, diag.Wrap(diag.OutputFileError, err, "write pcf")
		}
	}

	ctx := s.engine.Context()
	pins := s.order(inputs, outputs)
	for i := 0; i < len(pins); {
		p := pins[i]
		a, err := s.engine.DevicePin(p.input, p.name)
		if err != nil {
			code := exhaustedCode(p.input)
			res.Warnings++
			res.Failures[code]++
			budget := ctx.Budget(p.input)
			if budget < s.opts.MaxOverlap && ctx.AXIQueueLen(p.input) == 0 {
				next := ctx.RaiseBudget(p.input)
				s.log.Warn("device pin allocation failed, raising overlap budget",
					"code", code.String(), "pin", p.name, "budget", next)
				continue
			}
			s.log.Warn("device pin allocation failed, pin skipped",
				"code", code.String(), "pin", p.name, "budget", budget, "err", err)
			res.Skipped = append(res.Skipped, p.name)
			i++
			continue
		}

		if a.AXI {
			res.AXIUsed++
		}
		cmd := pcf.Command{
			Op:        pcf.OpSetIO,
			DesignPin: a.DesignPin,
			DevicePin: a.DevicePin,
			Mode:      a.Mode,
			PtRow:     a.PtRow(),
		}
		res.Commands = append(res.Commands, cmd)
		for _, w := range pws {
			if err := w.Write(cmd); err != nil {
				return res, diag.Wrap(diag.OutputFileError, err, "write pcf")
			}
		}
		i++
	}
	return res, nil
}
