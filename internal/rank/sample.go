package rank

import (
	"time"

	"besttweets/internal/etag"
	"besttweets/internal/model"
)

var bst = time.FixedZone("BST", 3600)

// sampleItems are a single day of @samuelpepys.
var sampleItems = []model.ActivityItem{
	{
		ID:            "323368562943197184",
		Text:          "Drank a good morning draught with Mr. Sheply, which occasioned my thinking upon the happy life that I live now.",
		CreatedAt:     time.Date(2013, 4, 14, 10, 34, 7, 0, bst),
		FavoriteCount: 11,
		RetweetCount:  40,
	},
	{
		ID:            "323358544365756417",
		Text:          "What with the goodness of the bed and the rocking of the ship I slept till almost ten o’clock.",
		CreatedAt:     time.Date(2013, 4, 14, 9, 54, 19, 0, bst),
		FavoriteCount: 9,
		RetweetCount:  25,
	},
	{
		ID:            "323237710284353537",
		Text:          "It being very rainy, and the rain coming upon my bed, I went and lay with John Goods in the great cabin below.",
		CreatedAt:     time.Date(2013, 4, 14, 1, 54, 10, 0, bst),
		FavoriteCount: 1,
		RetweetCount:  15,
	},
}

const sampleTotal = 8

// Sample builds the fixed demonstration edition. Its tag still rolls over daily.
func (p Pipeline) Sample(baseURL string, now time.Time) model.Digest {
	scored := make([]model.ScoredItem, 0, len(sampleItems))
	for _, it := range sampleItems {
		scored = append(scored, model.ScoredItem{ActivityItem: it, Score: model.Score(it, p.Weight)})
	}
	return model.Digest{
		Items:         p.Top(scored),
		TotalInWindow: sampleTotal,
		DaysFetched:   1,
		DisplayName:   "Samuel Pepys",
		Handle:        "samuelpepys",
		AvatarURL:     baseURL + "/img/sample_avatar.png",
		ValidationTag: etag.ComputeValidationTag(etag.SampleIdentity, now),
	}
}
