// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/workhub/internal/app/store/audit"
	"github.com/dalemusser/workhub/internal/app/system/apperr"
	"github.com/dalemusser/workhub/internal/app/system/httpjson"
	"github.com/dalemusser/workhub/internal/app/system/paging"
	"github.com/dalemusser/workhub/internal/app/system/timeouts"
)

type listResponse struct {
	Events  []audit.Event `json:"events"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	HasNext bool          `json:"hasNext"`
}

// ServeList handles GET /audit. Filters: category, event_type, actor,
// target, start_date and end_date (YYYY-MM-DD, end inclusive), plus page
// and limit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	page := paging.Parse(r)
	filter.Limit = page.LimitPlusOne()
	filter.Offset = page.Offset()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	hasNext := paging.TrimPage(&events, page)
	httpjson.OK(w, listResponse{
		Events:  events,
		Page:    page.Number,
		Limit:   page.Size,
		HasNext: hasNext,
	})
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		ActorID:   strings.TrimSpace(q.Get("actor")),
		TargetID:  strings.TrimSpace(q.Get("target")),
	}
	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return f, apperr.Invalid(fmt.Sprintf("bad start_date %q", s))
		}
		f.StartTime = &t
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return f, apperr.Invalid(fmt.Sprintf("bad end_date %q", s))
		}
		// End of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f, nil
}
