package cnmv

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"shortwatch/lib/htmlutil"
	"shortwatch/lib/shorts"
	"shortwatch/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const openDateLayout = "02/01/2006"

// collectShortData GETs the short position page for a company and classifies
// the response. No parsing happens here beyond classification.
func (c *Client) collectShortData(ctx context.Context, company shorts.Company) (classifiedPage, error) {
	ctx, span := tracer.Start(ctx, "collectShortData")
	defer span.End()

	span.SetAttributes(
		attribute.String("company", company.Name),
		attribute.String("nif", company.NIF),
	)

	if company.NIF == "" {
		slog.WarnContext(ctx, "company has no NIF, cannot query the CNMV", "company", company.Name)
		return "", shorts.ErrMissingNIF
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("nif", company.NIF).
		Get(c.shortPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%w: %v", shorts.ErrExternalService, err)
	}
	if res.StatusCode() != 200 {
		err := fmt.Errorf("%w: %s", shorts.ErrExternalService, res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	page, err := classifyResponse(res.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return page, nil
}

// parsePositions walks the table rows of a classified page and extracts one
// position per data row. The page layout tags cells with a class for the
// owner column and data-th attributes for the rest; rows without an owner
// cell are headers or filler and are skipped. Any cell that fails to parse
// rejects the whole page, partial extraction is never attempted.
func parsePositions(page classifiedPage, company shorts.Company) ([]shorts.ShortPosition, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, err
	}

	var positions []shorts.ShortPosition
	var parseErr error

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		var owner, weightText, dateText string

		row.Find("td").Each(func(_ int, td *goquery.Selection) {
			if class, ok := htmlutil.Attr(td, "class"); ok && class == "Izquierda" {
				owner = htmlutil.CleanText(td)
				return
			}
			header, ok := htmlutil.Attr(td, "data-th")
			if !ok {
				return
			}
			switch header {
			case "% sobre el capital":
				weightText = strings.TrimSpace(td.Text())
			case "Fecha de la posición":
				dateText = strings.TrimSpace(td.Text())
			}
		})

		if owner == "" {
			return true
		}

		// the source locale writes decimals with a comma
		weight, err := strconv.ParseFloat(strings.Replace(weightText, ",", ".", 1), 64)
		if err != nil {
			parseErr = fmt.Errorf("%w: weight %q for owner %q", shorts.ErrMalformedNumber, weightText, owner)
			return false
		}

		date, err := time.Parse(openDateLayout, dateText)
		if err != nil {
			parseErr = fmt.Errorf("%w: open date %q for owner %q", shorts.ErrInvalidDate, dateText, owner)
			return false
		}
		openDate, err := timezone.DisclosureUTC(date)
		if err != nil {
			parseErr = fmt.Errorf("%w: %v", shorts.ErrInvalidDate, err)
			return false
		}

		positions = append(positions, shorts.ShortPosition{
			Owner:    owner,
			Weight:   weight,
			OpenDate: openDate,
			Ticker:   company.Ticker,
		})
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return positions, nil
}

// ShortPositions checks the CNMV page for open short positions against a
// company. The result is Ok regardless of how many positions are open; a
// company with no disclosures above the threshold yields an empty snapshot.
func (c *Client) ShortPositions(ctx context.Context, company shorts.Company) (shorts.AliveShortPositions, error) {
	ctx, span := tracer.Start(ctx, "ShortPositions")
	defer span.End()

	span.SetAttributes(
		attribute.String("company", company.Name),
		attribute.String("ticker", company.Ticker),
	)

	page, err := c.collectShortData(ctx, company)
	if err != nil {
		return shorts.AliveShortPositions{}, err
	}

	positions, err := parsePositions(page, company)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return shorts.AliveShortPositions{}, err
	}

	return shorts.NewAliveShortPositions(positions, time.Now().UTC()), nil
}

// Positions implements shorts.Provider. The CNMV page only exposes currently
// alive positions, historical time frames are not served.
func (c *Client) Positions(ctx context.Context, company shorts.Company, tf shorts.TimeFrame) (shorts.AliveShortPositions, error) {
	if !tf.Current() {
		return shorts.AliveShortPositions{}, shorts.ErrUnsupportedTimeFrame
	}
	return c.ShortPositions(ctx, company)
}
