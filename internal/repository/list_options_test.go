package repository

import (
	"reflect"
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildMatch(t *testing.T) {
	public := true
	private := false

	cases := []struct {
		name string
		opts *ListOptions
		want bson.M
	}{
		{
			name: "no filters",
			opts: &ListOptions{},
			want: bson.M{},
		},
		{
			name: "nil scope matches nothing",
			opts: &ListOptions{Scoped: true},
			want: bson.M{"post_id": bson.M{"$in": []uint64{}}},
		},
		{
			name: "scope ids",
			opts: &ListOptions{Scoped: true, Scope: []uint64{3, 1}},
			want: bson.M{"post_id": bson.M{"$in": []uint64{3, 1}}},
		},
		{
			name: "keyword is escaped and case insensitive",
			opts: &ListOptions{Keyword: "  a.b*(c)  "},
			want: bson.M{"title": primitive.Regex{Pattern: `a\.b\*\(c\)`, Options: "i"}},
		},
		{
			name: "blank keyword ignored",
			opts: &ListOptions{Keyword: "   "},
			want: bson.M{},
		},
		{
			name: "public only",
			opts: &ListOptions{IsPublic: &public},
			want: bson.M{"is_public": true},
		},
		{
			name: "private with keyword in scope",
			opts: &ListOptions{Scoped: true, Scope: []uint64{7}, Keyword: "trip", IsPublic: &private},
			want: bson.M{
				"post_id":   bson.M{"$in": []uint64{7}},
				"title":     primitive.Regex{Pattern: "trip", Options: "i"},
				"is_public": false,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildMatch(tc.opts, "post_id", "title")
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("buildMatch = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestBuildMatchKeywordMatchesLiterally(t *testing.T) {
	re := buildMatch(&ListOptions{Keyword: "C++"}, "group_id", "name")["name"].(primitive.Regex)
	compiled := regexp.MustCompile("(?" + re.Options + ")" + re.Pattern)
	if !compiled.MatchString("learning c++ together") {
		t.Fatalf("pattern %q should match literal c++", re.Pattern)
	}
	if compiled.MatchString("cc") {
		t.Fatalf("pattern %q must not treat + as a quantifier", re.Pattern)
	}
}

func stageNames(p []bson.D) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

func TestPagePipeline(t *testing.T) {
	match := bson.M{"is_public": true}
	opts := &ListOptions{SortKey: SortPostTotal, Skip: 20, Limit: 10}

	p := pagePipeline(match, groupDerived(), "group_id", opts)

	wantStages := []string{"$match", "$addFields", "$sort", "$skip", "$limit", "$project"}
	if got := stageNames(p); !reflect.DeepEqual(got, wantStages) {
		t.Fatalf("stages = %v, want %v", got, wantStages)
	}
	if !reflect.DeepEqual(p[0][0].Value, match) {
		t.Fatalf("$match = %#v", p[0][0].Value)
	}
	if !reflect.DeepEqual(p[1][0].Value, bson.D{{Key: "post_total", Value: sizeOf("posts")}}) {
		t.Fatalf("$addFields = %#v", p[1][0].Value)
	}
	wantSort := bson.D{{Key: "post_total", Value: -1}, {Key: "group_id", Value: -1}}
	if !reflect.DeepEqual(p[2][0].Value, wantSort) {
		t.Fatalf("$sort = %#v", p[2][0].Value)
	}
	if p[3][0].Value != int64(20) || p[4][0].Value != int64(10) {
		t.Fatalf("skip/limit = %v/%v", p[3][0].Value, p[4][0].Value)
	}
	if !reflect.DeepEqual(p[5][0].Value, bson.D{{Key: "password_hash", Value: 0}}) {
		t.Fatalf("$project = %#v", p[5][0].Value)
	}
}

func TestPagePipelineDefaultsToLatest(t *testing.T) {
	p := pagePipeline(bson.M{}, postDerived(), "post_id", &ListOptions{Limit: 10})

	wantSort := bson.D{{Key: SortCreatedAt, Value: -1}, {Key: "post_id", Value: -1}}
	if !reflect.DeepEqual(p[2][0].Value, wantSort) {
		t.Fatalf("$sort = %#v", p[2][0].Value)
	}
	if !reflect.DeepEqual(p[1][0].Value, bson.D{{Key: "comment_total", Value: sizeOf("comments")}}) {
		t.Fatalf("$addFields = %#v", p[1][0].Value)
	}
}

func TestSizeOfTreatsMissingListAsEmpty(t *testing.T) {
	want := bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$comments", bson.A{}}}}}}
	if got := sizeOf("comments"); !reflect.DeepEqual(got, want) {
		t.Fatalf("sizeOf = %#v", got)
	}
}
