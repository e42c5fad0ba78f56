package storage_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
	"github.com/EricPacefactory/Station-Test-Patterns/internal/storage"
)

func frame(k int, visible bool, hue float64) *pattern.Frame {
	v := 0.0
	if visible {
		v = 1
	}
	return &pattern.Frame{
		Index: k,
		Time:  float64(k) / 10,
		Truth: pattern.Truth{
			{Name: "blink_1s", Value: v},
			{Name: "hue", Value: hue},
		},
	}
}

var _ = Describe("Store", func() {
	var (
		dir   string
		store *storage.Store
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "runs")
		store = storage.New(dir)
		Expect(store.Init()).To(Succeed())
	})

	It("lists nothing for a missing directory", func() {
		runs, err := storage.New(filepath.Join(dir, "nope")).List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})

	Describe("metadata", func() {
		It("round-trips through Create, Save and Load", func() {
			meta := &storage.RunMetadata{
				Pattern:      "cycle_mosaic_1",
				Seed:         7,
				Width:        300,
				Height:       345,
				FPS:          30,
				Duration:     60,
				BlinkPeriods: []float64{1, 5, 15, 60},
			}
			id, err := store.Create(meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(HavePrefix("cycle_mosaic_1_"))
			Expect(filepath.Join(dir, id, "metadata.json")).To(BeAnExistingFile())

			meta.Frames = 1800
			meta.Reason = "completed"
			meta.Metrics = map[string]float64{"frames_per_sec": 29.9}
			Expect(store.Save(meta)).To(Succeed())

			loaded, err := store.Load(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Frames).To(Equal(1800))
			Expect(loaded.BlinkPeriods).To(Equal([]float64{1, 5, 15, 60}))
			Expect(loaded.Metrics).To(HaveKeyWithValue("frames_per_sec", 29.9))
		})

		It("refuses to save metadata without an id", func() {
			Expect(store.Save(&storage.RunMetadata{})).NotTo(Succeed())
		})

		It("lists runs oldest first and skips broken entries", func() {
			first := &storage.RunMetadata{Pattern: "blink_basic"}
			_, err := store.Create(first)
			Expect(err).NotTo(HaveOccurred())
			time.Sleep(5 * time.Millisecond)
			second := &storage.RunMetadata{Pattern: "cycle_mosaic_1"}
			_, err = store.Create(second)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.MkdirAll(filepath.Join(dir, "junk"), 0755)).To(Succeed())

			runs, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
			Expect(runs[0].ID).To(Equal(first.ID))
			Expect(runs[1].ID).To(Equal(second.ID))
		})
	})

	Describe("ground truth", func() {
		var id string

		BeforeEach(func() {
			var err error
			id, err = store.Create(&storage.RunMetadata{Pattern: "blink_basic"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes one row per frame and reads it back", func() {
			tw, err := store.TruthWriter(id)
			Expect(err).NotTo(HaveOccurred())
			for k := 0; k < 20; k++ {
				Expect(tw.OnFrame(frame(k, k%10 < 5, float64(k)*3.6))).To(Succeed())
			}
			Expect(tw.Rows()).To(Equal(20))
			Expect(tw.Close()).To(Succeed())

			times, truths, err := store.LoadTruth(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(times).To(HaveLen(20))
			Expect(truths).To(HaveLen(20))
			Expect(times[5]).To(BeNumerically("~", 0.5, 1e-9))
			Expect(truths[4].Bool("blink_1s")).To(BeTrue())
			Expect(truths[5].Bool("blink_1s")).To(BeFalse())
			Expect(truths[10].Bool("blink_1s")).To(BeTrue())

			hue, ok := truths[7].Get("hue")
			Expect(ok).To(BeTrue())
			Expect(hue).To(BeNumerically("~", 25.2, 1e-9))
		})

		It("returns empty truth for a header-only file", func() {
			tw, err := store.TruthWriter(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(tw.Close()).To(Succeed())

			times, truths, err := store.LoadTruth(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(times).To(BeEmpty())
			Expect(truths).To(BeEmpty())
		})

		It("fails for an unknown run", func() {
			_, _, err := store.LoadTruth("missing")
			Expect(err).To(HaveOccurred())
		})
	})
})
