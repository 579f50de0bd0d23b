// Package vote draws the answer panel of an owner poll.
//
// A poll shows two to nine answers on a grid of equal boxes ([AnswerBox]).
// Each box is drawn as two vector shapes: a filled rounded rectangle and a
// rounded ring around it, both built from [drawing.RoundedRect] and
// serialized at the smallest exact precision. After /vote showresult, every
// box also carries its share of the votes ([Percentages]).
package vote
