/*
Package yaml reads feature metadata, the names and kinds of the features
of a dataset, from YAML documents.

A metadata document has a features mapping with an entry per feature, in
column order. Its value is the kind of the feature:

	features:
	  color: [Green, Yellow, Red]   # discrete, taking one of the listed values
	  origin: discrete              # discrete, taking any value
	  diameter: continuous
	  ripe: boolean
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
	yaml "gopkg.in/yaml.v2"
)

type metadata struct {
	Features yaml.MapSlice `yaml:"features"`
}

/*
ReadFeatures parses a metadata document and returns its features in the
order they are declared. Malformed documents, unknown kinds and repeated
feature names are Configuration errors.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	var m metadata
	if err := yaml.Unmarshal(md, &m); err != nil {
		return nil, errors.Errorf(errors.Configuration, "parsing feature metadata: %v", err)
	}
	if len(m.Features) == 0 {
		return nil, errors.Errorf(errors.Configuration, "feature metadata declares no features")
	}
	features := make([]feature.Feature, 0, len(m.Features))
	for _, item := range m.Features {
		name := fmt.Sprintf("%v", item.Key)
		if feature.Find(features, name) >= 0 {
			return nil, errors.Errorf(errors.Configuration, "feature %s is declared more than once", name)
		}
		f, err := parseFeature(name, item.Value)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

func parseFeature(name string, kind interface{}) (feature.Feature, error) {
	switch kind := kind.(type) {
	case string:
		switch kind {
		case "continuous":
			return feature.NewContinuousFeature(name), nil
		case "boolean":
			return feature.NewBooleanFeature(name), nil
		case "discrete":
			return feature.NewDiscreteFeature(name, nil), nil
		}
		return nil, errors.Errorf(errors.Configuration, "feature %s has unknown kind %q", name, kind)
	case []interface{}:
		values := make([]string, 0, len(kind))
		for _, v := range kind {
			values = append(values, fmt.Sprintf("%v", v))
		}
		return feature.NewDiscreteFeature(name, values), nil
	}
	return nil, errors.Errorf(errors.Configuration, "feature %s is declared with a %T instead of a kind or a list of values", name, kind)
}

// ReadFeaturesFromFile reads the file at filepath and parses it with ReadFeatures
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading feature metadata file %s", filepath)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing feature metadata file %s", filepath)
	}
	return features, nil
}
