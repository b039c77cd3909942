package cache

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Materialization: a flattened field, value sequence from a hash read is
// paired up and coerced into a generic record, then decoded into the target
// type. Decoding is weakly typed on purpose: the store round-trips numbers as
// strings, and keys written from other numeric contexts may come back as
// numbers where a string is declared.

func record(flat []string) map[string]any {
	rec := make(map[string]any, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		rec[flat[i]] = coerce(flat[i+1])
	}
	return rec
}

func coerce(value string) any {
	if n, err := strconv.ParseUint(value, 10, 64); err == nil {
		return n
	}
	return value
}

func coerceAll(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = coerce(value)
	}
	return out
}

func decodeRecord[T any](key string, rec map[string]any, required ...string) (T, error) {
	var out T
	for _, field := range required {
		if _, ok := rec[field]; !ok {
			return out, &MaterializeError{Key: key, Err: fmt.Errorf("missing field %q", field)}
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(rec); err != nil {
		return out, &MaterializeError{Key: key, Err: err}
	}
	return out, nil
}

// Per-entity decode rules. Each names its required hash fields; everything
// else is optional and absent fields stay zero or nil.

func materializeGuild(key string, rec map[string]any) (Guild, error) {
	return decodeRecord[Guild](key, rec, "name", "owner_id", "region")
}

func materializeMember(key string, rec map[string]any) (Member, error) {
	return decodeRecord[Member](key, rec, "user_id", "deaf", "mute")
}

func materializeRole(key string, rec map[string]any) (Role, error) {
	return decodeRecord[Role](key, rec, "name", "colour", "permissions")
}

func materializeVoiceState(key string, flat []string) (VoiceState, error) {
	if len(flat) == 0 {
		return VoiceState{}, ErrNotFound
	}
	return decodeRecord[VoiceState](key, record(flat), "channel_id", "session_id")
}

func parseIDs(members []string) ([]uint64, error) {
	out := make([]uint64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedID, member)
		}
		out = append(out, id)
	}
	return out, nil
}
