// Enums shared between configuration and the project model. Kept in a
// separate package so config does not have to import the model and the model
// does not have to import config.
package common

//go:generate go tool go-enum --marshal --names --values

// Kind of an imported asset entry.
// ENUM(cover, template-image, icon)
type AssetKind int

// What to do when a board has several elements without incoming connections.
// ENUM(first, fail)
type RootAmbiguity int
