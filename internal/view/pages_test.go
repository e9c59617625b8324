package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/miapp/portal/internal/core/domain"
)

func TestHome_RendersVisibility(t *testing.T) {
	d := HomeDocument()
	d.Hide(domain.RegionGuestNav)
	d.SetText(domain.RegionUserName, "Hola, <Ana>")
	d.Hide(domain.RegionHeroWorker)

	var buf bytes.Buffer
	if err := Home(d).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, `<div id="nav-guest" class="d-none">`) {
		t.Errorf("expected nav-guest hidden, got %s", html)
	}
	if !strings.Contains(html, `<div id="nav-logged">`) {
		t.Errorf("expected nav-logged shown")
	}
	if !strings.Contains(html, "Hola, &lt;Ana&gt;") {
		t.Errorf("expected escaped greeting")
	}
	if !strings.Contains(html, `id="btn-hero-trabajador"`) || !strings.Contains(html, `style="display: none"`) {
		t.Errorf("expected hero rendered hidden")
	}
}

func TestPublish_OmitsHero(t *testing.T) {
	var buf bytes.Buffer
	if err := Publish(NavDocument()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "btn-hero-trabajador") {
		t.Errorf("publish page must not contain the hero call-to-action")
	}
}

func TestConfirmLogout_AsksQuestion(t *testing.T) {
	var buf bytes.Buffer
	if err := ConfirmLogout().Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `name="confirm" value="si"`) {
		t.Errorf("expected confirm button")
	}
}

func TestNav_EscapesUserNameMarkup(t *testing.T) {
	d := NavDocument()
	d.SetText(domain.RegionUserName, `Hola, "><script>alert(1)</script>`)

	var buf bytes.Buffer
	if err := Publish(d).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "<script>") {
		t.Fatalf("user name rendered unescaped: %s", html)
	}
	if !strings.Contains(html, `<span id="user-name">Hola, &#34;&gt;&lt;script&gt;`) {
		t.Errorf("expected escaped greeting, got %s", html)
	}
}
