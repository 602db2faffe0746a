package controllers

import (
	"bizbilling-backend/config"
	"bizbilling-backend/dispatch"
	"bizbilling-backend/pdf"
)

var (
	issuer    config.Issuer
	renderer  *pdf.Renderer
	mailer    dispatch.Mailer
	messenger dispatch.Messenger
)

// Setup wires the document renderer and outbound transports. Called once at
// startup; tests may inject fakes.
func Setup(iss config.Issuer, r *pdf.Renderer, m dispatch.Mailer, w dispatch.Messenger) {
	issuer = iss
	renderer = r
	mailer = m
	messenger = w
}
