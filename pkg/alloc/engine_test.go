package alloc_test

import (
	"fmt"

	"github.com/OpenTraceLab/fpgapin/pkg/alloc"
	"github.com/OpenTraceLab/fpgapin/pkg/diag"
	"github.com/OpenTraceLab/fpgapin/pkg/pintable"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine", func() {
	Context("with one tile holding an RX row and a TX row", func() {
		var (
			tbl *pintable.Table
			e   *alloc.Engine
		)

		BeforeEach(func() {
			tbl = newTable(
				"G,B1,PAD_X,A1,t,3,4,0,A2F_x,fc_a,,Y,,",
				"G,B1,PAD_X,A1,t,3,4,0,F2A_x,fc_b,,,Y,",
			)
			e = newEngine(tbl)
		})

		It("should give the input the RX row and the output the TX row", func() {
			in, err := e.DevicePin(true, "din")
			Expect(err).NotTo(HaveOccurred())
			Expect(in.Row).To(Equal(0))
			Expect(in.Mode).To(Equal("MODE_A_RX"))
			Expect(in.Loc).To(Equal(pintable.Location{X: 3, Y: 4, Z: 0}))
			Expect(in.DevicePin).To(Equal("PAD_X"))

			// The shared tile is at its budget after the input, so the
			// output needs the raised budget.
			e.Context().RaiseBudget(false)
			out, err := e.DevicePin(false, "dout")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Row).To(Equal(1))
			Expect(out.Mode).To(Equal("MODE_A_TX"))

			Expect(tbl.Records[0].Used).To(BeTrue())
			Expect(tbl.Records[1].Used).To(BeTrue())
			Expect(e.Context().Collisions).To(Equal(0))
		})

		It("should record every allocation in the context sets", func() {
			a, err := e.DevicePin(true, "din")
			Expect(err).NotTo(HaveOccurred())
			ctx := e.Context()
			Expect(ctx.UsedDevicePins).To(HaveKey("PAD_X"))
			Expect(ctx.UsedLocations).To(HaveKey(a.Loc))
			Expect(ctx.UsedTileIDs).To(HaveKey(0))
			Expect(ctx.UsedInputLocations).To(HaveKeyWithValue(a.Loc, "din"))
			Expect(ctx.PlacedInputs).To(HaveLen(1))
		})

		It("should fail the second input at budget 1", func() {
			_, err := e.DevicePin(true, "a")
			Expect(err).NotTo(HaveOccurred())
			_, err = e.DevicePin(true, "b")
			Expect(err).To(HaveOccurred())
			Expect(diag.CodeOf(err)).To(Equal(diag.TooManyInputs))
		})
	})

	Describe("site preference", func() {
		It("should prefer a dedicated RX site over a bidirectional one", func() {
			tbl := newTable(
				"G,B1,P1,A1,t,1,1,0,A2F_both,fc1,,Y,Y,",
				"G,B1,P2,A2,t,1,1,0,A2F_rx,fc2,,Y,,",
			)
			e := newEngine(tbl)
			a, err := e.DevicePin(true, "din")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.DevicePin).To(Equal("P2"))

			e.Context().RaiseBudget(true)
			b, err := e.DevicePin(true, "din2")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.DevicePin).To(Equal("P1"))
			Expect(b.Mode).To(Equal("MODE_A_RX"))
		})

		It("should fall back to a GPIO site with a GPIO mode", func() {
			tbl := newTable("G,B1,P1,A1,t,1,1,0,F2A_g,fc1,,,,Y")
			e := newEngine(tbl)
			a, err := e.DevicePin(false, "dout")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Mode).To(Equal("MODE_GPIO"))
			Expect(a.DevicePin).To(Equal("P1"))
		})
	})

	Describe("tile exclusion", func() {
		It("should skip tiles whose sites are all used", func() {
			tbl := newTable(
				"G,B1,P1,A1,t,1,1,0,A2F_1,fc1,,Y,,",
				"G,B2,P2,A2,t,2,1,0,A2F_2,fc2,,Y,,",
			)
			tbl.Records[0].Used = true
			e := newEngine(tbl)

			a, err := e.DevicePin(true, "din")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.DevicePin).To(Equal("P2"))
			Expect(e.LastIterations).To(Equal(2))
		})

		It("should stop within the tile count", func() {
			var rows []string
			for i := 0; i < 7; i++ {
				rows = append(rows, fmt.Sprintf("G,B%d,P%d,A%d,t,%d,1,0,A2F,fc%d,,Y,,", i, i, i, i, i))
			}
			tbl := newTable(rows...)
			for _, r := range tbl.Records {
				r.Used = true
			}
			e := newEngine(tbl)
			_, err := e.BumpPin(true, "din")
			Expect(err).To(HaveOccurred())
			Expect(e.LastIterations).To(Equal(7))
		})

		It("should honor the iteration bound", func() {
			var rows []string
			for i := 0; i < 7; i++ {
				rows = append(rows, fmt.Sprintf("G,B%d,P%d,A%d,t,%d,1,0,A2F,fc%d,,Y,,", i, i, i, i, i))
			}
			tbl := newTable(rows...)
			for _, r := range tbl.Records {
				r.Used = true
			}
			tiles := pintable.BuildTileIndex(tbl, pintable.TileOptions{})
			e := alloc.NewEngine(tbl, tiles, alloc.NewContext(tbl), alloc.Options{MaxIterations: 3, Logger: quiet})
			_, err := e.BumpPin(true, "din")
			Expect(err).To(HaveOccurred())
			Expect(e.LastIterations).To(Equal(3))
		})
	})

	Describe("allocation invariants", func() {
		It("should never reuse a record and always match direction", func() {
			var rows []string
			for i := 0; i < 6; i++ {
				rows = append(rows,
					fmt.Sprintf("G,B%d,P%d,A%d,t,%d,2,0,A2F,fci%d,,Y,,", i, i, i, i, i),
					fmt.Sprintf("G,B%d,P%d,A%d,t,%d,2,0,F2A,fco%d,,,Y,", i, i, i, i, i),
				)
			}
			tbl := newTable(rows...)
			e := newEngine(tbl)
			e.Context().RaiseBudget(true)
			e.Context().RaiseBudget(false)

			seen := map[int]bool{}
			for i := 0; i < 6; i++ {
				in, err := e.DevicePin(true, fmt.Sprintf("in%d", i))
				Expect(err).NotTo(HaveOccurred())
				out, err := e.DevicePin(false, fmt.Sprintf("out%d", i))
				Expect(err).NotTo(HaveOccurred())

				Expect(tbl.Records[in.Row].IsInput()).To(BeTrue())
				Expect(tbl.Records[out.Row].IsOutput()).To(BeTrue())
				Expect(seen).NotTo(HaveKey(in.Row))
				seen[in.Row] = true
				Expect(seen).NotTo(HaveKey(out.Row))
				seen[out.Row] = true
			}

			locs := map[pintable.Location]bool{}
			for _, a := range e.Context().PlacedInputs {
				Expect(locs).NotTo(HaveKey(a.Loc))
				locs[a.Loc] = true
			}
			Expect(e.Context().Collisions).To(Equal(0))
		})
	})

	Describe("AXI fallback", func() {
		It("should use AXI pins once tiles are exhausted and latch", func() {
			tbl := newTable(
				"G,B1,P1,A1,t,1,1,0,A2F_1,fc1,,Y,,",
				"G,B1,P1,A1,t,1,1,0,A2F_2,fc2,,Y,,",
				"G,,,,t,9,9,0,A2F_axi,fc3,axi_data_i[0],,,Y",
				"G,,,,t,9,9,1,F2A_axi,fc4,axi_data_o,,,Y",
				"G,,,,t,9,9,2,F2A_axi,fc5,axi_misc,,,Y",
			)
			e := newEngine(tbl)
			ctx := e.Context()
			Expect(ctx.AXIQueueLen(true)).To(Equal(1))
			Expect(ctx.AXIQueueLen(false)).To(Equal(1))

			a, err := e.DevicePin(true, "a")
			Expect(err).NotTo(HaveOccurred())
			Expect(a.AXI).To(BeFalse())

			b, err := e.DevicePin(true, "b")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.AXI).To(BeTrue())
			Expect(b.DevicePin).To(Equal("axi_data_i[0]"))
			Expect(b.Mode).To(Equal("MODE_GPIO"))
			Expect(ctx.Exhausted(true)).To(BeTrue())
			Expect(ctx.Exhausted(false)).To(BeFalse())

			// A free ordinary site exists at budget 2, but the direction
			// is latched onto the now empty AXI queue.
			ctx.RaiseBudget(true)
			_, err = e.DevicePin(true, "c")
			Expect(err).To(HaveOccurred())
			Expect(diag.CodeOf(err)).To(Equal(diag.TooManyInputs))
			Expect(tbl.Records[1].Used).To(BeFalse())
		})
	})

	Describe("contexts", func() {
		It("should not share state between runs", func() {
			tbl := newTable("G,,,,t,9,9,0,A2F,fc,axi_i,,,Y")
			c1 := alloc.NewContext(tbl)
			c2 := alloc.NewContext(tbl)
			tiles := pintable.BuildTileIndex(tbl, pintable.TileOptions{})
			e1 := alloc.NewEngine(tbl, tiles, c1, alloc.Options{Logger: quiet})

			_, err := e1.DevicePin(true, "x")
			Expect(err).NotTo(HaveOccurred())
			Expect(c1.AXIQueueLen(true)).To(Equal(0))
			Expect(c1.Exhausted(true)).To(BeTrue())
			Expect(c2.AXIQueueLen(true)).To(Equal(1))
			Expect(c2.Exhausted(true)).To(BeFalse())
		})
	})
})
