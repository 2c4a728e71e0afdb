// Package model defines the core types shared by every stage of weaklabel.
//
// # Labels
//
//   - Label: closed enum over {Abstain, Negative, Positive}
//   - Cardinality: size of the label space (3)
//
// Abstain plays two roles. As a vote it means "no opinion" and carries no
// evidence. As a class index (0) it is the "no sentiment" class of a
// per-example distribution.
//
// # Data Types
//
//   - Example: immutable (id, text) record
//   - LabelMatrix: N×M votes, one row per example, one column per labeling function
package model
