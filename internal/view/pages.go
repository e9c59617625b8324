package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/miapp/portal/internal/core/domain"
)

// LogoutQuestion is asked before a session is erased.
const LogoutQuestion = "¿Seguro que quieres cerrar sesión?"

// Home renders the landing page for d.
func Home(d *Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		layoutStart(&b, "Inicio")
		nav(&b, d)
		b.WriteString(`<main class="container py-5"><section class="hero text-center">`)
		b.WriteString(`<h1>Servicios para tu hogar</h1>`)
		b.WriteString(`<a class="btn btn-primary btn-lg" href="/publicar">Pedir un servicio</a> `)
		if d.Has(domain.RegionHeroWorker) {
			b.WriteString(`<a id="` + string(domain.RegionHeroWorker) + `" class="btn btn-outline-secondary btn-lg" href="/principal.html?rol=trabajador"`)
			if !d.Visible(domain.RegionHeroWorker) {
				b.WriteString(` style="display: none"`)
			}
			b.WriteString(`>Quiero trabajar</a>`)
		}
		b.WriteString(`</section></main>`)
		layoutEnd(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Publish renders the page a logged-in visitor reaches through the guard.
func Publish(d *Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		layoutStart(&b, "Publicar")
		nav(&b, d)
		b.WriteString(`<main class="container py-5"><h1>Publicar un servicio</h1>`)
		b.WriteString(`<p>Describe lo que necesitas y un trabajador te contactará.</p></main>`)
		layoutEnd(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ConfirmLogout renders the yes/no prompt shown before logging out.
func ConfirmLogout() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		layoutStart(&b, "Cerrar sesión")
		b.WriteString(`<main class="container py-5"><form method="post" action="/logout">`)
		b.WriteString(`<p>` + templ.EscapeString(LogoutQuestion) + `</p>`)
		b.WriteString(`<button class="btn btn-danger" name="confirm" value="si">Aceptar</button> `)
		b.WriteString(`<button class="btn btn-secondary" name="confirm" value="no">Cancelar</button>`)
		b.WriteString(`</form></main>`)
		layoutEnd(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func layoutStart(b *strings.Builder, title string) {
	b.WriteString(`<!doctype html><html lang="es"><head><meta charset="utf-8">`)
	b.WriteString(`<title>` + templ.EscapeString(title) + `</title>`)
	b.WriteString(`<style>.d-none{display:none!important}</style></head><body>`)
}

func layoutEnd(b *strings.Builder) {
	b.WriteString(`</body></html>`)
}

func nav(b *strings.Builder, d *Document) {
	b.WriteString(`<nav class="navbar">`)

	b.WriteString(`<div id="` + string(domain.RegionGuestNav) + `"` + hiddenClass(d, domain.RegionGuestNav) + `>`)
	b.WriteString(`<a href="/principal.html">Iniciar sesión</a> `)
	b.WriteString(`<form method="post" action="/preferences" class="d-inline">`)
	b.WriteString(`<button name="rol" value="cliente">Registrarme</button></form>`)
	b.WriteString(`</div>`)

	b.WriteString(`<div id="` + string(domain.RegionLoggedNav) + `"` + hiddenClass(d, domain.RegionLoggedNav) + `>`)
	b.WriteString(`<span id="` + string(domain.RegionUserName) + `">` + templ.EscapeString(d.Text(domain.RegionUserName)) + `</span> `)
	b.WriteString(`<form method="post" action="/logout" class="d-inline"><button>Salir</button></form>`)
	b.WriteString(`</div>`)

	b.WriteString(`</nav>`)
}

func hiddenClass(d *Document, r domain.Region) string {
	if d.Visible(r) {
		return ""
	}
	return ` class="d-none"`
}
