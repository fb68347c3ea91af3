package maps

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"poimap-scraper/browser"
	"poimap-scraper/models"
)

// pauser is the pacing collaborator; satisfied by utils.Pacer.
type pauser interface {
	Pause()
}

// Enricher fills address and business-hours text from each place's detail
// page. A failed fetch leaves both fields empty for that place only; there is
// no retry and the batch never aborts.
type Enricher struct {
	agent   browser.Agent
	pacer   pauser
	log     zerolog.Logger
	timeout time.Duration
}

// NewEnricher creates an Enricher bound to an open session. The pacer sets
// the randomized pause inserted once per detail page.
func NewEnricher(agent browser.Agent, pacer pauser, log zerolog.Logger, timeout time.Duration) *Enricher {
	return &Enricher{agent: agent, pacer: pacer, log: log, timeout: timeout}
}

// Enrich visits every place's detail page in sequence.
func (e *Enricher) Enrich(places []*models.Place) {
	filled, failed := 0, 0
	for _, p := range places {
		if p.URL == "" {
			continue
		}

		if err := e.enrichOne(p); err != nil {
			failed++
			e.log.Warn().Err(err).Str("name", p.Name).Msg("detail fetch failed")
		} else {
			filled++
		}
		e.pacer.Pause()
	}

	e.log.Info().Int("filled", filled).Int("failed", failed).Msg("detail pass done")
}

func (e *Enricher) enrichOne(p *models.Place) error {
	if err := e.agent.Navigate(p.URL); err != nil {
		return err
	}

	addrEl, err := e.agent.WaitForElement(addressSel, e.timeout)
	if err != nil {
		return err
	}
	address, ok := e.agent.ReadText(addrEl)
	if !ok {
		return fmt.Errorf("maps: address text absent")
	}

	hoursEl, err := e.agent.WaitForElement(hoursSel, e.timeout)
	if err != nil {
		return err
	}
	hours, ok := e.agent.ReadAttribute(hoursEl, "aria-label")
	if !ok {
		return fmt.Errorf("maps: hours label absent")
	}

	p.Address = address
	p.Hours = hours
	return nil
}
