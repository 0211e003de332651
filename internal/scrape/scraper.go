package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/youruser/bithunter/internal/apperr"
	"github.com/youruser/bithunter/internal/markup"
	"github.com/youruser/bithunter/internal/trophies"
	"github.com/youruser/bithunter/internal/util"
)

const (
	titleSelector = "div.title.flex.v-align.center"
	rowSelector   = "table.zebra tr"
	titleSuffix   = " Trophies"
	rowCells      = 6
)

// Scraper walks the two psnprofiles page templates: the trophy list of a
// game and the detail page of a single trophy.
type Scraper struct {
	http    *resty.Client
	baseURL string
	logger  *zap.Logger
}

func NewScraper(client *resty.Client, baseURL string, logger *zap.Logger) *Scraper {
	return &Scraper{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (s *Scraper) GameURL(gameID string) string {
	return s.baseURL + "/trophies/" + gameID
}

// ResolveGame fetches the trophy list of gameID. A page without a title block
// is how the site answers unknown ids, so it maps to a not-found error.
func (s *Scraper) ResolveGame(ctx context.Context, gameID string) (*trophies.Game, error) {
	pageURL := s.GameURL(gameID)
	s.logger.Debug("Fetching game page", zap.String("game_id", gameID), zap.String("url", pageURL))

	body, err := util.GetBytes(ctx, s.http, pageURL, nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML parse failed: %w", err)
	}

	game, err := ParseGame(doc, gameID, s.baseURL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Resolved game",
		zap.String("game_id", gameID),
		zap.String("name", game.Name),
		zap.Int("trophies", len(game.Trophies)))
	return game, nil
}

// ParseGame extracts the title and the trophy rows of a trophy-list page.
// Rows that do not carry the six-cell trophy layout (headers, separators)
// are skipped.
func ParseGame(doc *goquery.Document, gameID, baseURL string) (*trophies.Game, error) {
	game := &trophies.Game{ID: gameID}

	container := doc.Find(titleSelector).First()
	if container.Length() == 0 {
		return nil, apperr.GameNotFound(gameID)
	}
	title, _ := markup.Between(container.Find("h3").First().Text(), "", titleSuffix)
	game.Name = markup.UnescapeAmp(strings.TrimSpace(title))
	if game.Name == "" {
		return nil, apperr.GameNotFound(gameID)
	}

	game.Trophies = make([]trophies.Trophy, 0)
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		if t, ok := parseRow(row, baseURL); ok {
			game.Trophies = append(game.Trophies, t)
		}
	})
	return game, nil
}

func parseRow(row *goquery.Selection, baseURL string) (trophies.Trophy, bool) {
	cells := row.ChildrenFiltered("td")
	if cells.Length() != rowCells {
		return trophies.Trophy{}, false
	}
	info := cells.Eq(1)
	anchor := info.Find("a[href]").First()
	if anchor.Length() == 0 {
		return trophies.Trophy{}, false
	}
	name := strings.TrimSpace(anchor.Text())
	if name == "" {
		return trophies.Trophy{}, false
	}
	href, _ := anchor.Attr("href")

	return trophies.Trophy{
		Name:        name,
		Description: markup.TextAfterBreak(info),
		Type:        cells.Eq(5).Find("img").First().AttrOr("title", ""),
		DetailURL:   absolute(baseURL, href),
	}, true
}

func absolute(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return baseURL + href
}

// ResolveImage returns the full resolution image link of a trophy detail
// page: the first anchor of the first table cell. The page layout is trusted;
// whatever that anchor points at is returned.
func (s *Scraper) ResolveImage(ctx context.Context, detailURL string) (string, error) {
	body, err := util.GetBytes(ctx, s.http, detailURL, nil)
	if err != nil {
		s.logger.Warn("Invalid get request", zap.String("url", detailURL), zap.Error(err))
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("HTML parse failed: %w", err)
	}
	return ParseImage(doc, detailURL)
}

func ParseImage(doc *goquery.Document, detailURL string) (string, error) {
	href, ok := markup.FirstHref(doc.Find("td").First())
	if !ok || strings.TrimSpace(href) == "" {
		return "", apperr.Structure("no image link in the first table cell", detailURL)
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", apperr.Structure(fmt.Sprintf("invalid image link %q", href), detailURL)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(detailURL)
	if err != nil {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}
