// Package anno writes Benders decomposition partition annotations as CPLEX
// annotation files (.ann).
//
// The output layout, including the duplicated XML declaration, is fixed for
// compatibility with files produced by earlier exporters. Object names are
// attribute-escaped (& < > ' "), so a name containing those characters
// differs from exporters that wrote names raw.
package anno
