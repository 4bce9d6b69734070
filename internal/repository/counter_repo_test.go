package repository

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCounterUpdates(t *testing.T) {
	if got, want := nextUpdate(), (bson.M{"$inc": bson.M{"seq": 1}}); !reflect.DeepEqual(got, want) {
		t.Fatalf("nextUpdate = %#v", got)
	}
	if got, want := seedUpdate(42), (bson.M{"$max": bson.M{"seq": uint64(42)}}); !reflect.DeepEqual(got, want) {
		t.Fatalf("seedUpdate = %#v", got)
	}
}

func TestToUint64(t *testing.T) {
	cases := []struct {
		in      interface{}
		want    uint64
		wantErr bool
	}{
		{nil, 0, false},
		{int32(7), 7, false},
		{int64(1 << 40), 1 << 40, false},
		{float64(12), 12, false},
		{"12", 0, true},
	}
	for _, tc := range cases {
		got, err := toUint64(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("toUint64(%#v) = %d, %v", tc.in, got, err)
		}
	}
}
