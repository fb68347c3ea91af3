package maps

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"poimap-scraper/browser"
	"poimap-scraper/config"
	"poimap-scraper/models"
	"poimap-scraper/utils"
)

// Selectors for the Maps search UI. These are disposable glue against a
// third-party page and the first thing to check when a harvest comes back
// empty.
const (
	searchBoxSel    = "input#searchboxinput"
	searchButtonSel = "button#searchbox-searchbutton"
	feedSel         = "div[role='feed']"
	entrySel        = "div.Nv2PK"
	entryLinkSel    = "a"
	ratingSel       = "span.MW4etd"
	reviewsSel      = "span.UY7F9"
	addressSel      = "div.Io6YTe.fontBodyMedium.kR99db.fdkmkc"
	hoursSel        = "div.t39EBf.GUrTXd"
)

// Harvester drives one search session: submit the keyword, reveal the result
// list to a terminal state, and extract one place per visible entry.
type Harvester struct {
	agent browser.Agent
	cfg   *config.Config
	log   zerolog.Logger
	seen  *utils.URLSet
}

// NewHarvester creates a Harvester bound to an open session.
func NewHarvester(agent browser.Agent, cfg *config.Config, log zerolog.Logger) *Harvester {
	return &Harvester{
		agent: agent,
		cfg:   cfg,
		log:   log,
		seen:  utils.NewURLSet(),
	}
}

// Search types the keyword into the search box and submits it.
func (h *Harvester) Search(keyword string) error {
	box, err := h.agent.WaitForElement(searchBoxSel, h.cfg.WaitTimeout())
	if err != nil {
		return fmt.Errorf("maps: search box: %w", err)
	}
	if err := h.agent.TypeInto(box, keyword); err != nil {
		return fmt.Errorf("maps: type keyword: %w", err)
	}

	button, err := h.agent.WaitForClickable(searchButtonSel, h.cfg.WaitTimeout())
	if err != nil {
		return fmt.Errorf("maps: search button: %w", err)
	}
	if err := h.agent.Click(button); err != nil {
		return fmt.Errorf("maps: submit search: %w", err)
	}
	return nil
}

// RevealAll scrolls the result panel until the list saturates or the hard
// wall-clock budget runs out. TimedOut is a partial success: whatever is
// visible gets collected.
func (h *Harvester) RevealAll() (RevealState, error) {
	feed, err := h.agent.WaitForElement(feedSel, h.cfg.WaitTimeout())
	if err != nil {
		return TimedOut, fmt.Errorf("maps: result panel never appeared: %w", err)
	}

	deadline := time.Now().Add(h.cfg.MaxScrollWait())
	tracker := revealTracker{}

	for {
		if err := h.agent.ScrollToBottom(feed); err != nil {
			return TimedOut, fmt.Errorf("maps: scroll result panel: %w", err)
		}
		time.Sleep(h.cfg.Settle())

		entries, err := h.agent.FindAll(entrySel)
		if err != nil {
			return TimedOut, fmt.Errorf("maps: count entries: %w", err)
		}

		state := tracker.Observe(len(entries))
		h.log.Debug().Int("entries", len(entries)).Stringer("state", state).Msg("reveal step")

		if state == Saturated {
			return Saturated, nil
		}
		if time.Now().After(deadline) {
			h.log.Warn().Int("entries", len(entries)).Msg("reveal budget exhausted")
			return TimedOut, nil
		}
	}
}

// Collect extracts one place per visible entry. A malformed entry yields a
// fully-empty placeholder rather than aborting its siblings; an entry with no
// readable name is dropped outright since name is the join key downstream.
func (h *Harvester) Collect() ([]*models.Place, error) {
	entries, err := h.agent.FindAll(entrySel)
	if err != nil {
		return nil, fmt.Errorf("maps: list entries: %w", err)
	}

	places := make([]*models.Place, 0, len(entries))
	placeholders := 0
	for _, entry := range entries {
		place, keep := h.extractEntry(entry)
		if !keep {
			continue
		}
		if place.Name == "" {
			placeholders++
		}
		places = append(places, place)
	}

	h.log.Info().
		Int("entries", len(entries)).
		Int("places", len(places)).
		Int("placeholders", placeholders).
		Msg("entries extracted")
	return places, nil
}

func (h *Harvester) extractEntry(entry browser.Element) (*models.Place, bool) {
	link, ok := h.agent.FindWithin(entry, entryLinkSel)
	if !ok {
		// no anchor means no name to join on
		return nil, false
	}

	name, ok := h.agent.ReadAttribute(link, "aria-label")
	if !ok || strings.TrimSpace(name) == "" {
		return nil, false
	}

	url, urlOK := h.agent.ReadAttribute(link, "href")
	rating, ratingOK := h.readWithin(entry, ratingSel)
	reviews, reviewsOK := h.readWithin(entry, reviewsSel)
	if !urlOK || !ratingOK || !reviewsOK {
		h.log.Debug().Str("name", name).Msg("entry field unreadable, keeping placeholder")
		return &models.Place{ScrapedAt: time.Now()}, true
	}

	// the same detail URL can surface twice across reveal steps
	if !h.seen.Add(url) {
		return nil, false
	}

	return &models.Place{
		Name:      strings.TrimSpace(name),
		Rating:    strings.TrimSpace(rating),
		Reviews:   strings.Trim(strings.TrimSpace(reviews), "()"),
		URL:       url,
		ScrapedAt: time.Now(),
	}, true
}

func (h *Harvester) readWithin(entry browser.Element, selector string) (string, bool) {
	el, ok := h.agent.FindWithin(entry, selector)
	if !ok {
		return "", false
	}
	return h.agent.ReadText(el)
}
