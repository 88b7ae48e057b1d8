package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
)

func TestCardsHTML_EmptyPlaceholder(t *testing.T) {
	doc := parseHTML(t, []byte(cardsHTML(session.CardList{Empty: true, Count: "0 / 3"})))
	require.Equal(t, session.EmptyTitle, doc.Find(".card.empty h2").Text())
	require.Zero(t, doc.Find("article").Length())
}

func TestCardHTML_Preview(t *testing.T) {
	c := session.Card{Key: "card-3", ID: "a'b", Title: `Quote "me"`, Edition: model.EditionFull, Express: "#", Full: "#"}
	doc := parseHTML(t, []byte(cardHTML(c)))

	card := doc.Find("article#card-3")
	require.Equal(t, "a'b", card.AttrOr("data-id", ""))
	require.Contains(t, card.AttrOr("data-on:click", ""), "@post('/cards/card-3/'")

	preview := card.Find("#card-3-preview")
	_, hidden := preview.Attr("hidden")
	require.True(t, hidden)
	_, hasSrc := preview.Find("iframe").Attr("src")
	require.False(t, hasSrc)
	require.Equal(t, "full", preview.Find(".note b").Text())

	open := parseHTML(t, []byte(previewHTML("card-3", c.Title, c.Edition, session.PreviewState{Open: true, Src: "x/f.html"})))
	_, hidden = open.Find("#card-3-preview").Attr("hidden")
	require.False(t, hidden)
	require.Equal(t, "x/f.html", open.Find("iframe").AttrOr("src", ""))
	require.Equal(t, `Preview: Quote "me"`, open.Find("iframe").AttrOr("title", ""))
}

func TestPathSectionHTML_HiddenWithoutPath(t *testing.T) {
	doc := parseHTML(t, []byte(pathSectionHTML(nil)))
	_, hidden := doc.Find("#pathSection").Attr("hidden")
	require.True(t, hidden)

	doc = parseHTML(t, []byte(pathSectionHTML([]session.StepEntry{{Index: 0, Label: "1", Title: "A", Difficulty: "Beginner"}})))
	require.Equal(t, 1, doc.Find("#pathSteps .pathStep").Length())
	require.Contains(t, doc.Find(".pathStep .pill").Text(), "Step 1")
}

func TestModalItemsHTML_KeepsIDOutOfScript(t *testing.T) {
	html := modalItemsHTML([]session.ModalItem{{ID: "x');alert(1)//", Title: "X"}})
	doc := parseHTML(t, []byte(html))
	btn := doc.Find("button").First()
	require.Equal(t, "x');alert(1)//", btn.AttrOr("data-id", ""))
	require.False(t, strings.Contains(btn.AttrOr("data-on:click", ""), "alert"))
}

func TestTagOptionsHTML(t *testing.T) {
	doc := parseHTML(t, []byte("<select>"+tagOptionsHTML([]string{"all", "a&b"}, "a&b")+"</select>"))
	opts := doc.Find("option")
	require.Equal(t, 2, opts.Length())
	require.Equal(t, "All tags", opts.First().Text())
	require.Equal(t, "a&b", opts.Last().AttrOr("value", ""))
	_, sel := opts.Last().Attr("selected")
	require.True(t, sel)
}
