package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/grove/store"
	"github.com/pbanos/grove/store/redisstore"
	"gopkg.in/redis.v5"
)

const modelKeyPrefix = "grove:models"

func isRedisURL(location string) bool {
	return strings.HasPrefix(location, "redis://")
}

func openRedisStore(location string) (store.Store, error) {
	opts, err := redisstore.ParseURL(location)
	if err != nil {
		return nil, err
	}
	return redisstore.New(redis.NewClient(opts), modelKeyPrefix), nil
}

// loadModel reads the model at the location: a file path, or a redis
// URL along with the ID of the model on it.
func (rcc *rootCmdConfig) loadModel(ctx context.Context, location, id string) (*store.Model, error) {
	if !isRedisURL(location) {
		rcc.Logf("Reading model from %s...", location)
		return store.ReadFile(location)
	}
	if id == "" {
		return nil, fmt.Errorf("required model-id flag was not set for model on redis")
	}
	rcc.Logf("Retrieving model %s from %s...", id, location)
	s, err := openRedisStore(location)
	if err != nil {
		return nil, err
	}
	defer s.Close(ctx)
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("model %q not found on %s", id, location)
	}
	return m, nil
}

// saveModel writes the model to the location: STDOUT when empty, a file
// path, or a redis URL where the model gets a new ID. It returns the
// location of the saved model.
func (rcc *rootCmdConfig) saveModel(ctx context.Context, location string, m *store.Model) (string, error) {
	switch {
	case location == "":
		data, err := store.EncodeModel(m)
		if err != nil {
			return "", err
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return "STDOUT", err
	case isRedisURL(location):
		s, err := openRedisStore(location)
		if err != nil {
			return "", err
		}
		defer s.Close(ctx)
		err = s.Create(ctx, m)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s with id %s", location, m.ID), nil
	}
	return location, store.WriteFile(location, m)
}
