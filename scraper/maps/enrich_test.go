package maps

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"poimap-scraper/models"
	"poimap-scraper/utils"
)

func testEnricher(agent *fakeAgent) *Enricher {
	// zero-range pacer: tests never sleep
	return NewEnricher(agent, utils.NewPacer(0, 0), zerolog.Nop(), time.Second)
}

type countingPauser struct {
	pauses int
}

func (c *countingPauser) Pause() { c.pauses++ }

func TestEnrichPausesOncePerRecord(t *testing.T) {
	agent := &fakeAgent{pages: map[string]fakePage{
		"https://maps/a": {address: "台北市中山區南京東路二段1號", hours: "每日 08:00 到 17:00"},
		"https://maps/b": {address: "台中市西區公益路200號", hours: "每日 09:00 到 18:00"},
	}}
	pacer := &countingPauser{}

	NewEnricher(agent, pacer, zerolog.Nop(), time.Second).Enrich([]*models.Place{
		{Name: "A", URL: "https://maps/a"},
		{Name: "B", URL: "https://maps/b"},
		{Name: "Placeholder"},
	})

	assert.Equal(t, 2, pacer.pauses)
}

func TestEnrichFillsAddressAndHours(t *testing.T) {
	agent := &fakeAgent{pages: map[string]fakePage{
		"https://maps/a": {address: "台北市信義區信義路五段7號", hours: "星期一 09:00 到 18:00"},
	}}

	p := &models.Place{Name: "A", URL: "https://maps/a"}
	testEnricher(agent).Enrich([]*models.Place{p})

	assert.Equal(t, "台北市信義區信義路五段7號", p.Address)
	assert.Equal(t, "星期一 09:00 到 18:00", p.Hours)
}

func TestEnrichIsolatesFailures(t *testing.T) {
	agent := &fakeAgent{
		pages: map[string]fakePage{
			"https://maps/good": {address: "高雄市鹽埕區大勇路1號", hours: "每日 10:00 到 22:00"},
			"https://maps/bad":  {broken: true},
		},
		navErr: map[string]error{
			"https://maps/gone": fmt.Errorf("navigation failed"),
		},
	}

	places := []*models.Place{
		{Name: "Bad", URL: "https://maps/bad"},
		{Name: "Gone", URL: "https://maps/gone"},
		{Name: "Good", URL: "https://maps/good"},
		{Name: "Placeholder"}, // no URL, skipped
	}
	testEnricher(agent).Enrich(places)

	assert.Empty(t, places[0].Address)
	assert.Empty(t, places[0].Hours)
	assert.Empty(t, places[1].Address)
	assert.Equal(t, "高雄市鹽埕區大勇路1號", places[2].Address)
	assert.Equal(t, "每日 10:00 到 22:00", places[2].Hours)
	assert.Empty(t, places[3].Address)
}
