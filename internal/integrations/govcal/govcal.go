package govcal

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/hearthledger/budget-service/internal/config"
)

// Client fetches the public bank-holiday calendar feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new holiday feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.HolidayFeedURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw feed document
func (c *Client) fetch() ([]byte, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	// Log the raw XML response for debugging
	c.log.Debugf("Holiday feed XML response: %s", string(body))

	return body, nil
}

// parseFeed extracts holiday dates from the XML document. Entries with an
// unparseable date attribute are skipped; a partially valid feed is still
// better than no calendar at all.
func (c *Client) parseFeed(rawBody []byte) ([]time.Time, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	elements := doc.FindElements("//calendar/holiday")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no holiday data found in XML")
	}

	var holidays []time.Time
	for _, el := range elements {
		attr := el.SelectAttrValue("date", "")
		date, err := time.Parse("2006-01-02", attr)
		if err != nil {
			c.log.Warnf("Skipping holiday entry with bad date %q: %v", attr, err)
			continue
		}
		holidays = append(holidays, date)
	}
	if len(holidays) == 0 {
		return nil, fmt.Errorf("no parseable holiday dates in feed")
	}
	return holidays, nil
}

// Holidays retrieves the current set of bank-holiday dates
func (c *Client) Holidays() ([]time.Time, error) {
	body, err := c.fetch()
	if err != nil {
		return nil, err
	}

	holidays, err := c.parseFeed(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d bank holidays from feed", len(holidays))
	return holidays, nil
}
