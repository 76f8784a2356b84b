package alloc_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/fpgapin/pkg/alloc"
	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/OpenTraceLab/fpgapin/pkg/pcf"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Synthesizer", func() {
	synth := func(e *alloc.Engine, opts alloc.SynthOptions) *alloc.Synthesizer {
		opts.Logger = quiet
		return alloc.NewSynthesizer(e, opts)
	}

	It("should place both inputs after one budget escalation", func() {
		tbl := newTable(
			"G,B1,P1,A1,t,1,1,0,A2F_1,fc1,,Y,,",
			"G,B1,P2,A2,t,1,1,0,A2F_2,fc2,,Y,,",
		)
		e := newEngine(tbl)
		res, err := synth(e, alloc.SynthOptions{DefinitionOrder: true}).Run([]string{"a", "b"}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Commands).To(HaveLen(2))
		Expect(res.Commands[0].DevicePin).To(Equal("P1"))
		Expect(res.Commands[1].DevicePin).To(Equal("P2"))
		Expect(res.Warnings).To(Equal(1))
		Expect(res.Failures).To(HaveKeyWithValue(diag.TooManyInputs, 1))
		Expect(res.Skipped).To(BeEmpty())
		Expect(e.Context().Budget(true)).To(Equal(2))
		Expect(e.Context().Budget(false)).To(Equal(1))
	})

	It("should skip pins once the budget reaches the ceiling", func() {
		tbl := newTable("G,B1,P1,A1,t,1,1,0,A2F_1,fc1,,Y,,")
		e := newEngine(tbl)
		res, err := synth(e, alloc.SynthOptions{DefinitionOrder: true}).Run([]string{"a", "b", "c"}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Commands).To(HaveLen(1))
		Expect(res.Skipped).To(Equal([]string{"b", "c"}))
		// b fails at budgets 1 through 5, c once more at 5.
		Expect(res.Warnings).To(Equal(6))
		Expect(res.Failures[diag.TooManyInputs]).To(Equal(6))
		Expect(e.Context().Budget(true)).To(Equal(alloc.MaxOverlap))
	})

	It("should honor a lower overlap ceiling", func() {
		tbl := newTable("G,B1,P1,A1,t,1,1,0,A2F_1,fc1,,Y,,")
		e := newEngine(tbl)
		res, err := synth(e, alloc.SynthOptions{DefinitionOrder: true, MaxOverlap: 2}).Run([]string{"a", "b"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Warnings).To(Equal(2))
		Expect(res.Skipped).To(Equal([]string{"b"}))
	})

	It("should count AXI fallbacks without escalating", func() {
		tbl := newTable(
			"G,B1,P1,A1,t,1,1,0,A2F_1,fc1,,Y,,",
			"G,,,,t,9,9,0,A2F_axi,fc2,axi_req_i,,,Y",
		)
		e := newEngine(tbl)
		res, err := synth(e, alloc.SynthOptions{DefinitionOrder: true}).Run([]string{"a", "b", "c"}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.AXIUsed).To(Equal(1))
		Expect(res.Commands[1].DevicePin).To(Equal("axi_req_i"))
		Expect(res.Commands[1].Mode).To(Equal("MODE_GPIO"))
		Expect(res.Skipped).To(Equal([]string{"c"}))
		Expect(e.Context().Budget(true)).To(Equal(1))
	})

	It("should name a table mode on AXI fallbacks without a GPIO column", func() {
		tbl := newTableWithHeader(strings.TrimSuffix(header, ",Mode_GPIO"),
			"G,B1,P1,A1,t,1,1,0,A2F_1,fc1,,Y,",
			"G,,,,t,9,9,0,A2F_axi,fc2,axi_req_i,Y,",
			"G,,,,t,9,9,1,A2F_axi,fc3,axi_bare_i,,",
		)
		e := newEngine(tbl)
		Expect(e.Context().AXIQueueLen(true)).To(Equal(1))

		var buf bytes.Buffer
		res, err := synth(e, alloc.SynthOptions{DefinitionOrder: true}).Run([]string{"a", "b"}, nil, &buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Commands).To(HaveLen(2))
		Expect(res.Commands[1].DevicePin).To(Equal("axi_req_i"))
		Expect(res.Commands[1].Mode).To(Equal("MODE_A_RX"))

		p, err := pcf.NewParser()
		Expect(err).NotTo(HaveOccurred())
		cmds, err := p.ParseString(buf.String())
		Expect(err).NotTo(HaveOccurred())
		Expect(pcf.Validate(cmds, tbl, quiet)).To(Succeed())
	})

	Context("writing constraints", func() {
		var freshEngine func() *alloc.Engine

		BeforeEach(func() {
			freshEngine = func() *alloc.Engine {
				var rows []string
				for i := 0; i < 8; i++ {
					rows = append(rows,
						fmt.Sprintf("G,B%d,P%d,A%d,t,%d,3,0,A2F,fci%d,,Y,,", i, i, i, i, i),
						fmt.Sprintf("G,B%d,P%d,A%d,t,%d,3,0,F2A,fco%d,,,Y,", i, i, i, i, i),
					)
				}
				return newEngine(newTable(rows...))
			}
		})

		It("should write lines that parse back to the same assignments", func() {
			var buf bytes.Buffer
			e := freshEngine()
			res, err := synth(e, alloc.SynthOptions{Seed: 7, EmitPtRow: true}).
				Run([]string{"i0", "i1", "i2"}, []string{"o0", "o1"}, &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(HavePrefix("#"))

			p, err := pcf.NewParser()
			Expect(err).NotTo(HaveOccurred())
			cmds, err := p.ParseString(buf.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(cmds).To(HaveLen(len(res.Commands)))
			for i, c := range cmds {
				want := res.Commands[i]
				Expect(c.DesignPin).To(Equal(want.DesignPin))
				Expect(c.DevicePin).To(Equal(want.DevicePin))
				Expect(c.Mode).To(Equal(want.Mode))
				Expect(c.PtRow).To(Equal(want.PtRow))
			}
		})

		It("should leave out -pt_row unless asked", func() {
			var buf bytes.Buffer
			_, err := synth(freshEngine(), alloc.SynthOptions{DefinitionOrder: true}).Run([]string{"i0"}, nil, &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("set_io i0 P0 -mode MODE_A_RX\n"))
			Expect(buf.String()).NotTo(ContainSubstring("-pt_row"))
		})

		It("should place all inputs before any output", func() {
			res, err := synth(freshEngine(), alloc.SynthOptions{Seed: 99}).
				Run([]string{"i0", "i1", "i2", "i3"}, []string{"o0", "o1", "o2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Commands).To(HaveLen(7))
			for i, c := range res.Commands {
				if i < 4 {
					Expect(c.DesignPin).To(HavePrefix("i"))
				} else {
					Expect(c.DesignPin).To(HavePrefix("o"))
				}
			}
		})

		It("should repeat the same order for the same seed", func() {
			names := []string{"i0", "i1", "i2", "i3", "i4", "i5"}
			run := func(seed uint64) []string {
				res, err := synth(freshEngine(), alloc.SynthOptions{Seed: seed}).Run(names, nil)
				Expect(err).NotTo(HaveOccurred())
				var got []string
				for _, c := range res.Commands {
					got = append(got, c.DesignPin)
				}
				return got
			}
			first := run(42)
			Expect(run(42)).To(Equal(first))
			Expect(first).To(ConsistOf(names))
		})
	})
})
