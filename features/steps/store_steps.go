//go:build integration

package steps

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
	"github.com/user/trimstrip-cli/db"
	"github.com/user/trimstrip-cli/trim"
)

type storeContext struct {
	dir   string
	store *sql.DB
	video *db.Video
	ids   map[string]int64
}

func (c *storeContext) anEmptyTrimStore() error {
	dir, err := os.MkdirTemp("", "trimstrip-features-")
	if err != nil {
		return err
	}
	c.dir = dir
	c.store, err = db.Open(filepath.Join(dir, "trimstrip.db"))
	return err
}

func (c *storeContext) aVideoLasting(path string, seconds float64) error {
	v, err := db.EnsureVideo(c.store, path, trim.NewTimeValue(seconds, timescale))
	if err != nil {
		return err
	}
	c.video = v
	return nil
}

func (c *storeContext) iSaveATrimLabelled(start, end float64, label string) error {
	w := trim.Window{Start: trim.NewTimeValue(start, timescale), End: trim.NewTimeValue(end, timescale)}
	id, err := db.InsertTrim(c.store, c.video.ID, w, label)
	if err != nil {
		return err
	}
	c.ids[label] = id
	return nil
}

func (c *storeContext) theVideoHasSavedTrims(want int) error {
	trims, err := db.SelectTrimsByVideo(c.store, c.video.ID)
	if err != nil {
		return err
	}
	if len(trims) != want {
		return fmt.Errorf("video has %d trims, want %d", len(trims), want)
	}
	return nil
}

func (c *storeContext) theLatestTrimIsLabelled(label string) error {
	t, err := db.SelectLatestTrim(c.store, c.video.ID)
	if err != nil {
		return err
	}
	if t.Label != label {
		return fmt.Errorf("latest trim is %q, want %q", t.Label, label)
	}
	return nil
}

func (c *storeContext) theTrimLabelledSpans(label string, start, end float64) error {
	id, ok := c.ids[label]
	if !ok {
		return fmt.Errorf("no trim labelled %q was saved", label)
	}
	t, err := db.SelectTrimByID(c.store, id)
	if err != nil {
		return err
	}
	w := t.Window()
	if math.Abs(w.Start.Seconds()-start) > secondsTolerance || math.Abs(w.End.Seconds()-end) > secondsTolerance {
		return fmt.Errorf("trim %q spans %v-%vs, want %v-%vs", label, w.Start.Seconds(), w.End.Seconds(), start, end)
	}
	return nil
}

func (c *storeContext) iDeleteTheTrimLabelled(label string) error {
	id, ok := c.ids[label]
	if !ok {
		return fmt.Errorf("no trim labelled %q was saved", label)
	}
	return db.DeleteTrim(c.store, id)
}

func (c *storeContext) theTrimmerClosesAt(seconds float64) error {
	return db.UpdateVideoStopTime(c.store, c.video.ID, seconds)
}

func (c *storeContext) reopeningTheVideoResumesAt(path string, want float64) error {
	v, err := db.EnsureVideo(c.store, path, trim.TimeValue{})
	if err != nil {
		return err
	}
	if math.Abs(v.StopTime-want) > secondsTolerance {
		return fmt.Errorf("stop time %vs, want %vs", v.StopTime, want)
	}
	return nil
}

func InitializeStoreScenario(ctx *godog.ScenarioContext) {
	c := &storeContext{}

	ctx.Before(func(bc context.Context, sc *godog.Scenario) (context.Context, error) {
		*c = storeContext{ids: make(map[string]int64)}
		return bc, nil
	})

	ctx.After(func(bc context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if c.store != nil {
			c.store.Close()
		}
		if c.dir != "" {
			os.RemoveAll(c.dir)
		}
		return bc, nil
	})

	const num = `(\d+(?:\.\d+)?)`

	ctx.Step(`^an empty trim store$`, c.anEmptyTrimStore)
	ctx.Step(`^a video "([^"]*)" lasting `+num+` seconds$`, c.aVideoLasting)
	ctx.Step(`^I save a trim from `+num+` to `+num+` seconds labelled "([^"]*)"$`, c.iSaveATrimLabelled)
	ctx.Step(`^the video has (\d+) saved trims?$`, c.theVideoHasSavedTrims)
	ctx.Step(`^the latest trim is labelled "([^"]*)"$`, c.theLatestTrimIsLabelled)
	ctx.Step(`^the trim labelled "([^"]*)" spans `+num+` to `+num+` seconds$`, c.theTrimLabelledSpans)
	ctx.Step(`^I delete the trim labelled "([^"]*)"$`, c.iDeleteTheTrimLabelled)
	ctx.Step(`^the trimmer closes with the playhead at `+num+` seconds$`, c.theTrimmerClosesAt)
	ctx.Step(`^reopening "([^"]*)" resumes at `+num+` seconds$`, c.reopeningTheVideoResumesAt)
}
