// Package tui is a terminal patient browser.
//
// The list shows every stored patient. Resting the mouse on a row opens a
// detail card next to the pointer; the card stays up while the pointer
// crosses onto it and disappears shortly after the pointer leaves both.
// Card visibility and placement come from a hover.Controller.
//
// Keys: / filter by name, esc clear filter, s toggle sort, r reload, q quit.
package tui
