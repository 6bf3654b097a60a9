package model

// DefaultRetweetWeight is how many favorites one retweet is worth.
const DefaultRetweetWeight = 2

// Score rates an item by its favorites and weighted retweets.
// Negative counts from a malformed payload are treated as zero so the score never goes negative.
func Score(it ActivityItem, weight int) int {
	fav, rt := it.FavoriteCount, it.RetweetCount
	if fav < 0 {
		fav = 0
	}
	if rt < 0 {
		rt = 0
	}
	if weight < 0 {
		weight = 0
	}
	return fav + weight*rt
}
