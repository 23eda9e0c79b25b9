// Package javasrc turns Java source files into element facts.
//
// Files are parsed with tree-sitter-java. Every named type declaration
// (nested ones included) and its members become an ElementFact; local and
// anonymous classes and enum-constant bodies are not declared API and are
// skipped. Restriction tags are read from the Javadoc comment preceding a
// declaration. The front end also derives the implicit modifiers Java
// attaches to interface, enum, record and annotation members, so the rule
// engine only ever sees explicit facts.
package javasrc
