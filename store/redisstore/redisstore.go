/*
Package redisstore provides a store.Store backed by a redis DB, keeping
every model encoded as JSON under a key made of a prefix and its ID.
*/
package redisstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pbanos/grove/store"
	"gopkg.in/redis.v5"
)

const idLength = 20

type redisStore struct {
	rc     *redis.Client
	prefix string
}

//New builds a store.Store backed by a redis DB
func New(rc *redis.Client, prefix string) store.Store {
	return &redisStore{rc, prefix}
}

/*
ParseURL takes a URL of the form redis://[:password@]host[:port][/db]
and returns the options to connect to the redis DB it points to.
*/
func ParseURL(redisURL string) (*redis.Options, error) {
	u, err := url.Parse(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL %q: %v", redisURL, err)
	}
	if u.Scheme != "redis" {
		return nil, fmt.Errorf("parsing redis URL %q: unsupported scheme %q", redisURL, u.Scheme)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.Port() == "" {
		opts.Addr = fmt.Sprintf("%s:6379", u.Hostname())
	}
	if u.User != nil {
		if p, ok := u.User.Password(); ok {
			opts.Password = p
		}
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		opts.DB, err = strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL %q: invalid db %q", redisURL, db)
		}
	}
	return opts, nil
}

func (rs *redisStore) Create(ctx context.Context, m *store.Model) error {
	data, err := store.EncodeModel(m)
	if err != nil {
		return fmt.Errorf("creating model: encoding model: %v", err)
	}
	if m.ID != "" {
		ok, err := rs.rc.SetNX(rs.keyFor(m.ID), data, 0).Result()
		if err != nil {
			return fmt.Errorf("creating model in redis: %v", err)
		}
		if !ok {
			return fmt.Errorf("creating model: id %q already taken", m.ID)
		}
		return nil
	}
	var ok bool
	for !ok {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.ID = randString(idLength)
		ok, err = rs.rc.SetNX(rs.keyFor(m.ID), data, 0).Result()
		if err != nil {
			return fmt.Errorf("creating model in redis: %v", err)
		}
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*store.Model, error) {
	data, err := rs.rc.Get(rs.keyFor(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving model %q: %v", id, err)
	}
	m, err := store.DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving model %q: %v", id, err)
	}
	m.ID = id
	return m, nil
}

func (rs *redisStore) Store(ctx context.Context, m *store.Model) error {
	redisID := rs.keyFor(m.ID)
	data, err := store.EncodeModel(m)
	if err != nil {
		return fmt.Errorf("storing model %q: encoding model: %v", redisID, err)
	}
	_, err = rs.rc.Set(redisID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing model %q in redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Delete(ctx context.Context, id string) error {
	redisID := rs.keyFor(id)
	_, err := rs.rc.Del(redisID).Result()
	if err != nil {
		return fmt.Errorf("deleting model %q from redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
