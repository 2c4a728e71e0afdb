// Package classifier provides the downstream model distilled from pseudo
// labels: an n-gram count vectorizer, a multinomial logistic regression and
// a classification report.
package classifier
