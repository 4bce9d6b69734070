package service

import (
	"Memoria/internal/model"
	"Memoria/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeCounterRepo struct {
	mu   sync.Mutex
	seqs map[string]uint64
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{seqs: map[string]uint64{}}
}

func (f *fakeCounterRepo) Next(_ context.Context, name string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seqs[name]++
	return f.seqs[name], nil
}

func (f *fakeCounterRepo) SeedFromMax(_ context.Context, name, _, _ string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seqs[name], nil
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []uint64, id uint64) []uint64 {
	res := make([]uint64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			res = append(res, v)
		}
	}
	return res
}

func inScope(opts *repository.ListOptions, id uint64) bool {
	return !opts.Scoped || contains(opts.Scope, id)
}

func matchKeyword(opts *repository.ListOptions, text string) bool {
	kw := strings.TrimSpace(opts.Keyword)
	return kw == "" || strings.Contains(strings.ToLower(text), strings.ToLower(kw))
}

func matchPublic(opts *repository.ListOptions, isPublic bool) bool {
	return opts.IsPublic == nil || *opts.IsPublic == isPublic
}

func paginate[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

type fakeGroupRepo struct {
	groups        map[uint64]*model.Group
	addPostErr    error
	removePostErr error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[uint64]*model.Group{}}
}

func (f *fakeGroupRepo) CreateGroup(_ context.Context, group *model.Group) error {
	cp := *group
	f.groups[group.GroupID] = &cp
	return nil
}

func (f *fakeGroupRepo) GetGroup(_ context.Context, groupID uint64) (*model.Group, error) {
	g, ok := f.groups[groupID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *g
	cp.Posts = append([]uint64{}, g.Posts...)
	return &cp, nil
}

func (f *fakeGroupRepo) UpdateGroup(_ context.Context, groupID uint64, patch *model.GroupPatch) error {
	g, ok := f.groups[groupID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	patch.Apply(g)
	return nil
}

func (f *fakeGroupRepo) DeleteGroup(_ context.Context, groupID uint64) error {
	if _, ok := f.groups[groupID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.groups, groupID)
	return nil
}

func (f *fakeGroupRepo) ListGroups(_ context.Context, opts *repository.ListOptions) ([]*model.Group, int64, error) {
	matched := make([]*model.Group, 0)
	for _, g := range f.groups {
		if inScope(opts, g.GroupID) && matchKeyword(opts, g.Name) && matchPublic(opts, g.IsPublic) {
			cp := *g
			cp.Digest = ""
			matched = append(matched, &cp)
		}
	}
	key := func(g *model.Group) int64 {
		switch opts.SortKey {
		case repository.SortLikeCount:
			return g.LikeCount
		case repository.SortBadgeCount:
			return g.BadgeCount
		case repository.SortPostTotal:
			return int64(len(g.Posts))
		default:
			return g.CreatedAt.UnixNano()
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		ki, kj := key(matched[i]), key(matched[j])
		if ki != kj {
			return ki > kj
		}
		return matched[i].GroupID > matched[j].GroupID
	})
	return paginate(matched, opts.Skip, opts.Limit), int64(len(matched)), nil
}

func (f *fakeGroupRepo) AddPost(_ context.Context, groupID, postID uint64) error {
	if f.addPostErr != nil {
		return f.addPostErr
	}
	g, ok := f.groups[groupID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if !contains(g.Posts, postID) {
		g.Posts = append(g.Posts, postID)
		g.PostCount++
	}
	return nil
}

func (f *fakeGroupRepo) RemovePost(_ context.Context, groupID, postID uint64) error {
	if f.removePostErr != nil {
		return f.removePostErr
	}
	g, ok := f.groups[groupID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if contains(g.Posts, postID) {
		g.Posts = without(g.Posts, postID)
		g.PostCount--
	}
	return nil
}

func (f *fakeGroupRepo) IncrLikes(_ context.Context, groupID uint64) (int64, error) {
	g, ok := f.groups[groupID]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	g.LikeCount++
	return g.LikeCount, nil
}

func (f *fakeGroupRepo) SyncPostCounts(_ context.Context) (int64, error) {
	var n int64
	for _, g := range f.groups {
		if g.PostCount != int64(len(g.Posts)) {
			g.PostCount = int64(len(g.Posts))
			n++
		}
	}
	return n, nil
}

type fakePostRepo struct {
	posts         map[uint64]*model.Post
	deleteErr     error
	addCommentErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uint64]*model.Post{}}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *model.Post) error {
	cp := *post
	f.posts[post.PostID] = &cp
	return nil
}

func (f *fakePostRepo) GetPost(_ context.Context, postID uint64) (*model.Post, error) {
	p, ok := f.posts[postID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *p
	cp.Comments = append([]uint64{}, p.Comments...)
	return &cp, nil
}

func (f *fakePostRepo) GetPostByComment(_ context.Context, commentID uint64) (*model.Post, error) {
	for _, p := range f.posts {
		if contains(p.Comments, commentID) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakePostRepo) GetPostsByGroup(_ context.Context, groupID uint64) ([]*model.Post, error) {
	res := make([]*model.Post, 0)
	for _, p := range f.posts {
		if p.GroupID == groupID {
			cp := *p
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakePostRepo) UpdatePost(_ context.Context, postID uint64, patch *model.PostPatch) error {
	p, ok := f.posts[postID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	patch.Apply(p)
	return nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, postID uint64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.posts[postID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.posts, postID)
	return nil
}

func (f *fakePostRepo) DeletePosts(_ context.Context, postIDs []uint64) (int64, error) {
	var n int64
	for _, id := range postIDs {
		if _, ok := f.posts[id]; ok {
			delete(f.posts, id)
			n++
		}
	}
	return n, nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, opts *repository.ListOptions) ([]*model.Post, int64, error) {
	matched := make([]*model.Post, 0)
	for _, p := range f.posts {
		if inScope(opts, p.PostID) && matchKeyword(opts, p.Title) && matchPublic(opts, p.IsPublic) {
			cp := *p
			cp.Digest = ""
			matched = append(matched, &cp)
		}
	}
	key := func(p *model.Post) int64 {
		switch opts.SortKey {
		case repository.SortLikeCount:
			return p.LikeCount
		case repository.SortCommentTotal:
			return int64(len(p.Comments))
		default:
			return p.CreatedAt.UnixNano()
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		ki, kj := key(matched[i]), key(matched[j])
		if ki != kj {
			return ki > kj
		}
		return matched[i].PostID > matched[j].PostID
	})
	return paginate(matched, opts.Skip, opts.Limit), int64(len(matched)), nil
}

func (f *fakePostRepo) AddComment(_ context.Context, postID, commentID uint64) error {
	if f.addCommentErr != nil {
		return f.addCommentErr
	}
	p, ok := f.posts[postID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if !contains(p.Comments, commentID) {
		p.Comments = append(p.Comments, commentID)
		p.CommentCount++
	}
	return nil
}

func (f *fakePostRepo) RemoveComment(_ context.Context, postID, commentID uint64) error {
	p, ok := f.posts[postID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if contains(p.Comments, commentID) {
		p.Comments = without(p.Comments, commentID)
		p.CommentCount--
	}
	return nil
}

func (f *fakePostRepo) IncrLikes(_ context.Context, postID uint64) (int64, error) {
	p, ok := f.posts[postID]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	p.LikeCount++
	return p.LikeCount, nil
}

func (f *fakePostRepo) SyncCommentCounts(_ context.Context) (int64, error) {
	var n int64
	for _, p := range f.posts {
		if p.CommentCount != int64(len(p.Comments)) {
			p.CommentCount = int64(len(p.Comments))
			n++
		}
	}
	return n, nil
}

type fakeCommentRepo struct {
	comments map[uint64]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uint64]*model.Comment{}}
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	cp := *comment
	f.comments[comment.CommentID] = &cp
	return nil
}

func (f *fakeCommentRepo) GetComment(_ context.Context, commentID uint64) (*model.Comment, error) {
	c, ok := f.comments[commentID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) UpdateComment(_ context.Context, commentID uint64, patch *model.CommentPatch) error {
	c, ok := f.comments[commentID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	patch.Apply(c)
	return nil
}

func (f *fakeCommentRepo) DeleteComment(_ context.Context, commentID uint64) error {
	if _, ok := f.comments[commentID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.comments, commentID)
	return nil
}

func (f *fakeCommentRepo) DeleteComments(_ context.Context, commentIDs []uint64) (int64, error) {
	var n int64
	for _, id := range commentIDs {
		if _, ok := f.comments[id]; ok {
			delete(f.comments, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentRepo) ListComments(_ context.Context, commentIDs []uint64, skip, limit int64) ([]*model.Comment, int64, error) {
	matched := make([]*model.Comment, 0)
	for _, id := range commentIDs {
		if c, ok := f.comments[id]; ok {
			cp := *c
			cp.Digest = ""
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CommentID > matched[j].CommentID })
	return paginate(matched, skip, limit), int64(len(matched)), nil
}

type fakeLinkRepo struct {
	links map[uint64]uint64
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[uint64]uint64{}}
}

func (f *fakeLinkRepo) SaveLink(_ context.Context, commentID, postID uint64) error {
	f.links[commentID] = postID
	return nil
}

func (f *fakeLinkRepo) GetLink(_ context.Context, commentID uint64) (*model.CommentLink, error) {
	postID, ok := f.links[commentID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &model.CommentLink{CommentID: commentID, PostID: postID}, nil
}

func (f *fakeLinkRepo) DeleteLink(_ context.Context, commentID uint64) error {
	delete(f.links, commentID)
	return nil
}

func (f *fakeLinkRepo) DeleteLinks(_ context.Context, commentIDs []uint64) error {
	for _, id := range commentIDs {
		delete(f.links, id)
	}
	return nil
}

type fakeOrphanRepo struct {
	entries map[string]model.OrphanLink
}

func newFakeOrphanRepo() *fakeOrphanRepo {
	return &fakeOrphanRepo{entries: map[string]model.OrphanLink{}}
}

func (f *fakeOrphanRepo) Record(_ context.Context, link model.OrphanLink) error {
	f.entries[link.String()] = link
	return nil
}

func (f *fakeOrphanRepo) Pending(_ context.Context) ([]model.OrphanLink, error) {
	res := make([]model.OrphanLink, 0, len(f.entries))
	for _, l := range f.entries {
		res = append(res, l)
	}
	return res, nil
}

func (f *fakeOrphanRepo) Resolve(_ context.Context, link model.OrphanLink) error {
	delete(f.entries, link.String())
	return nil
}
