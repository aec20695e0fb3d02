package controllers

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperr "github.com/phillip/trust-manager-go/apperr"
	models "github.com/phillip/trust-manager-go/models"
	paging "github.com/phillip/trust-manager-go/paging"
)

var errMailDisabled = errors.New("email is not configured")

var meetingNotice = template.Must(template.New("notice").Parse(`<p>Dear {{.Name}},</p>
<p>You are invited to <strong>{{.Meeting.Title}}</strong>{{with .When}} on {{.}}{{end}}{{with .Meeting.Venue}} at {{.}}{{end}}.</p>
{{with .Meeting.Agenda}}<p>Agenda:</p><p>{{.}}</p>{{end}}`))

// ---------------- NOTIFY ----------------
// NotifyMeeting emails the meeting notice to every trustee that has an
// email address. Individual send failures are reported, not fatal.
func NotifyMeeting(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Mail == nil {
			a.fail(c, apperr.Unavailable("notify", errMailDisabled))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()

		meeting, err := a.Stores.Meetings.Get(ctx, c.Param("id"))
		if err != nil {
			a.fail(c, err)
			return
		}

		trustees, err := paging.NewLoader(
			paging.NewFetcher[models.Trustee](a.Stores.Trustees, models.PositionOf[models.Trustee]),
			models.IDOf[models.Trustee],
			drainPageSize,
		).Drain(ctx, paging.Default())
		if err != nil {
			a.fail(c, err)
			return
		}

		var when string
		if t, ok := meeting.Date.Instant(); ok {
			when = t.Format("Monday, 2 January 2006 15:04")
		}
		subject := "Meeting notice: " + meeting.Title

		sent := 0
		failed := []string{}
		for _, t := range trustees.Items {
			if t.Email == "" {
				continue
			}
			var body bytes.Buffer
			if err := meetingNotice.Execute(&body, map[string]any{"Name": t.Name, "Meeting": meeting, "When": when}); err != nil {
				a.fail(c, err)
				return
			}
			if err := a.Mail.Send(ctx, t.Email, t.Name, subject, body.String()); err != nil {
				a.Log.Warn().Err(err).Str("meeting", meeting.ID.Hex()).Str("to", t.Email).Msg("meeting notice not sent")
				failed = append(failed, t.Email)
				continue
			}
			sent++
		}

		c.JSON(http.StatusOK, gin.H{"sent": sent, "failed": failed})
	}
}
