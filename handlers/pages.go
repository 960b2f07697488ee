package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/dmitrymomot/saasgate"
	"github.com/dmitrymomot/saasgate/middlewares"
	"github.com/dmitrymomot/saasgate/pkg/i18n"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/repository"
)

// Page describes a rendered page. HTML rendering is left to the frontend;
// the server decides locale, access and translated copy.
type Page struct {
	ID          string `json:"page"`
	Locale      string `json:"locale"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Heading     string `json:"heading,omitempty"`
	Subject     string `json:"subject,omitempty"`
}

// DashboardSections are the valid values of /dashboard/{section}.
var DashboardSections = []string{"general", "team", "activity", "security"}

// Pages serves the page descriptors of the marketing and dashboard routes.
type Pages struct {
	set   *locale.Set
	store repository.Store
}

func NewPages(set *locale.Set, store repository.Store) *Pages {
	return &Pages{set: set, store: store}
}

func (h *Pages) Routes(r saasgate.Router) {
	r.GET("/", h.static("home"))
	r.GET("/pricing", h.static("pricing"))
	r.GET("/sign-in", h.static("sign_in"))
	r.GET("/sign-up", h.static("sign_up"))
	r.GET("/dashboard", h.dashboard)
	r.GET("/dashboard/{section}", h.section)
}

func (h *Pages) page(c saasgate.Context, id string) Page {
	p := Page{
		ID:     id,
		Locale: c.Locale(),
		Path:   h.set.Localize(c.Request().URL.Path, c.Locale()),
		Title:  c.T("pages." + id + ".title"),
	}
	if s := middlewares.GetSession(c); s != nil {
		p.Subject = s.Subject
	}
	return p
}

func (h *Pages) static(id string) saasgate.HandlerFunc {
	return func(c saasgate.Context) error {
		p := h.page(c, id)
		if desc := c.T("pages." + id + ".description"); desc != "pages."+id+".description" {
			p.Description = desc
		}
		return c.JSON(http.StatusOK, p)
	}
}

func (h *Pages) dashboard(c saasgate.Context) error {
	p := h.page(c, "dashboard")
	if err := h.greet(c, &p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Pages) section(c saasgate.Context) error {
	section := c.Param("section")
	if !slices.Contains(DashboardSections, section) {
		return saasgate.ErrNotFound("page not found")
	}

	p := h.page(c, "dashboard."+section)
	p.Title = c.T("pages.dashboard.sections." + section)
	if err := h.greet(c, &p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// greet sets the dashboard heading from the signed-in user's name.
func (h *Pages) greet(c saasgate.Context, p *Page) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	u, err := h.store.GetUserByID(c, id)
	if errors.Is(err, repository.ErrNotFound) {
		return saasgate.ErrUnauthorized("unauthorized", saasgate.WithError(err))
	}
	if err != nil {
		return err
	}

	name := u.Name
	if name == "" {
		name = u.Email
	}
	p.Heading = c.T("pages.dashboard.welcome", i18n.M{"name": name})
	return nil
}
