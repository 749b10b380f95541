/*
Package ensemble trains several estimators on random subsets of the same
training data and combines their predictions by majority vote.

BaggingClassifier works with any Estimator, RandomForest with decision
trees that also consider a random subset of the features at every split.
*/
package ensemble
