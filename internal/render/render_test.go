package render_test

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simplot/internal/ingest"
	"github.com/san-kum/simplot/internal/render"
	"github.com/san-kum/simplot/internal/series"
)

func csvDataset() *series.Dataset {
	ds, err := ingest.ParseCSV(strings.NewReader("t,h,v\n0,10,0\n1,9,-1\n2,7.5,-2\n"), nil)
	Expect(err).NotTo(HaveOccurred())
	return ds
}

func multiRunDataset() *series.Dataset {
	input := strings.Join([]string{
		"  fixed step size .. 0.5",
		"time: 0 1 2 3 end",
		"h: 10 9 7 4 end",
		"v: 0 -1 -2 -3 end",
		"h: 12 11 9 6 end",
		"v: 0 -1.5 -2.5 -3.5 end",
	}, "\n")
	l, err := ingest.ParseLog(strings.NewReader(input), ingest.LogOptions{})
	Expect(err).NotTo(HaveOccurred())
	return l.Dataset
}

var _ = Describe("Render", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "simplot-render-")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	Describe("gonum backend", func() {
		It("writes a png sized from the figure options", func() {
			ds := csvDataset()
			out := filepath.Join(dir, "out.png")

			err := render.Render(ds, ds.DefaultPanels(), out, render.Options{Width: 10, Height: 8})
			Expect(err).NotTo(HaveOccurred())

			f, err := os.Open(out)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			cfg, err := png.DecodeConfig(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Width).To(Equal(960))
			Expect(cfg.Height).To(Equal(768))
		})

		It("overwrites an existing file", func() {
			ds := csvDataset()
			out := filepath.Join(dir, "out.png")
			Expect(os.WriteFile(out, []byte("stale"), 0644)).To(Succeed())

			Expect(render.Render(ds, ds.DefaultPanels(), out, render.Options{})).To(Succeed())

			data, err := os.ReadFile(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).NotTo(Equal([]byte("stale")))
			_, err = png.DecodeConfig(bytes.NewReader(data))
			Expect(err).NotTo(HaveOccurred())
		})

		It("leaves no temporary files behind", func() {
			ds := csvDataset()
			Expect(render.Render(ds, ds.DefaultPanels(), filepath.Join(dir, "out.png"), render.Options{})).To(Succeed())

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("writes svg when the extension asks for it", func() {
			ds := csvDataset()
			var buf bytes.Buffer

			Expect(render.Encode(&buf, ds, ds.DefaultPanels(), "svg", render.Options{})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("<svg"))
			Expect(buf.String()).To(ContainSubstring("h vs t"))
			Expect(buf.String()).To(ContainSubstring("v vs t"))
		})

		It("overlays repeated blocks on the same subplot", func() {
			ds := multiRunDataset()
			var buf bytes.Buffer

			Expect(render.Encode(&buf, ds, ds.DefaultPanels(), "svg", render.Options{})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("run 1"))
			Expect(buf.String()).To(ContainSubstring("run 2"))
		})

		It("labels the x axis on the last subplot only", func() {
			ds := csvDataset()
			var buf bytes.Buffer

			Expect(render.Encode(&buf, ds, ds.DefaultPanels(), "svg", render.Options{})).To(Succeed())
			svg := buf.String()
			Expect(strings.Count(svg, ">t</text>")).To(Equal(1))
			Expect(strings.Count(svg, ">h</text>")).To(Equal(1))
			Expect(strings.Count(svg, ">v</text>")).To(Equal(1))
		})

		It("tolerates blocks of different lengths", func() {
			ds := series.NewDataset("t")
			ds.Add("t", series.Series{0, 1, 2, 3})
			ds.Add("h", series.Series{5, 4})

			var buf bytes.Buffer
			Expect(render.Encode(&buf, ds, ds.DefaultPanels(), "png", render.Options{})).To(Succeed())
		})
	})

	Describe("gochart backend", func() {
		It("stacks panels into one png", func() {
			ds := multiRunDataset()
			var buf bytes.Buffer

			opts := render.Options{Backend: render.BackendGoChart, Width: 10, Height: 8}
			Expect(render.Encode(&buf, ds, ds.DefaultPanels(), "png", opts)).To(Succeed())

			cfg, err := png.DecodeConfig(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Width).To(Equal(960))
			Expect(cfg.Height).To(Equal(768))
		})

		It("handles a constant series", func() {
			ds := series.NewDataset("t")
			ds.Add("t", series.Series{0, 1, 2})
			ds.Add("h", series.Series{3, 3, 3})

			var buf bytes.Buffer
			opts := render.Options{Backend: render.BackendGoChart}
			Expect(render.Encode(&buf, ds, ds.DefaultPanels(), "png", opts)).To(Succeed())
		})

		It("rejects vector formats", func() {
			ds := csvDataset()
			out := filepath.Join(dir, "out.svg")

			err := render.Render(ds, ds.DefaultPanels(), out, render.Options{Backend: render.BackendGoChart})
			Expect(err).To(MatchError(series.ErrUnsupportedFormat))
			Expect(out).NotTo(BeAnExistingFile())
		})
	})

	Describe("failures", func() {
		It("reports unknown series without writing a file", func() {
			ds := csvDataset()
			out := filepath.Join(dir, "out.png")

			err := render.Render(ds, []series.Panel{{Series: "altitude", X: "t"}}, out, render.Options{})
			Expect(err).To(MatchError(series.ErrUnknownSeries))
			Expect(out).NotTo(BeAnExistingFile())
		})

		It("reports an unknown x series", func() {
			ds := csvDataset()
			err := render.Encode(&bytes.Buffer{}, ds, []series.Panel{{Series: "h", X: "time"}}, "png", render.Options{})
			Expect(err).To(MatchError(series.ErrUnknownSeries))
		})

		It("requires at least one panel", func() {
			err := render.Encode(&bytes.Buffer{}, csvDataset(), nil, "png", render.Options{})
			Expect(err).To(MatchError(series.ErrNoPanels))
		})

		It("rejects formats gonum cannot write", func() {
			ds := csvDataset()
			out := filepath.Join(dir, "out.bmp")

			err := render.Render(ds, ds.DefaultPanels(), out, render.Options{})
			Expect(err).To(MatchError(series.ErrUnsupportedFormat))
			Expect(out).NotTo(BeAnExistingFile())
		})

		It("rejects unknown backends", func() {
			err := render.Encode(&bytes.Buffer{}, csvDataset(), csvDataset().DefaultPanels(), "png", render.Options{Backend: "ascii"})
			Expect(err).To(HaveOccurred())
		})
	})

	DescribeTable("header-only input",
		func(backend string) {
			ds, err := ingest.ParseCSV(strings.NewReader("t,h,v\n"), nil)
			Expect(err).NotTo(HaveOccurred())
			out := filepath.Join(dir, "out.png")

			Expect(render.Render(ds, ds.DefaultPanels(), out, render.Options{Backend: backend})).To(Succeed())

			f, err := os.Open(out)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Width).To(Equal(960))
		},
		Entry("gonum", render.BackendGonum),
		Entry("gochart", render.BackendGoChart),
	)

	DescribeTable("non-finite samples",
		func(backend string, bad float64) {
			ds := series.NewDataset("t")
			ds.Add("t", series.Series{0, 1, 2})
			ds.Add("h", series.Series{1, bad, 3})
			out := filepath.Join(dir, "out.png")

			err := render.Render(ds, ds.DefaultPanels(), out, render.Options{Backend: backend})
			Expect(err).To(MatchError(series.ErrNonFinite))
			Expect(err.Error()).To(ContainSubstring("h vs t"))
			Expect(out).NotTo(BeAnExistingFile())
		},
		Entry("gonum NaN", render.BackendGonum, math.NaN()),
		Entry("gonum Inf", render.BackendGonum, math.Inf(1)),
		Entry("gochart NaN", render.BackendGoChart, math.NaN()),
		Entry("gochart -Inf", render.BackendGoChart, math.Inf(-1)),
	)

	DescribeTable("FormatOf",
		func(path, want string) {
			Expect(render.FormatOf(path)).To(Equal(want))
		},
		Entry("png", "out.png", "png"),
		Entry("upper case", "OUT.SVG", "svg"),
		Entry("nested", filepath.Join("a", "b", "fig.pdf"), "pdf"),
		Entry("no extension", "figure", "png"),
	)
})
