package respond

// Phrase pools. A renderer picks one entry uniformly per use.
var (
	conceptIntros = []string{
		"Great progress! 🎉",
		"Nice work! 💪",
		"Awesome! 🚀",
		"You're doing great! ⭐",
		"Fantastic! 🎯",
		"Keep it up! 🔥",
		"Excellent! 👏",
		"Love to see it! ✨",
	}

	nextConceptPhrases = []string{
		"You're ready to tackle",
		"Time to level up with",
		"Next up, you should explore",
		"You're well-prepared for",
		"Consider diving into",
		"You'd do well with",
		"A natural next step would be",
	}

	problemPhrases = []string{
		"Here are some problems you can crush now:",
		"You're ready for these challenges:",
		"Try your hand at these:",
		"These problems are perfect for your level:",
		"Give these a shot:",
		"You should be able to solve:",
		"Test your skills with:",
	}

	problemSolvedIntros = []string{
		"Nicely done! 🎉",
		"Great job solving that! 💯",
		"You crushed it! 🔥",
		"Well done! ⭐",
		"Awesome solve! 🚀",
		"That's a solid win! 💪",
		"Nice! 👏",
	}

	similarProblemPhrases = []string{
		"Since you solved that, try these similar ones:",
		"You're on a roll! Keep the momentum with:",
		"Build on that success with:",
		"Similar problems to practice:",
		"Keep the pattern going with:",
	}

	noRecommendations = []string{
		"Hmm, I don't have specific recommendations yet. Keep learning and come back!",
		"You're either way ahead or just starting out! Keep going! 💪",
		"I need a bit more context. Tell me what you've learned so far!",
	}

	encouragements = []string{
		"You're making great progress! Keep at it! 🚀",
		"Every problem solved is a step forward! 💪",
		"Consistency is key - you're doing awesome! ⭐",
		"Keep building that problem-solving muscle! 🔥",
		"You've got this! One concept at a time! ✨",
	}

	tips = []string{
		"Practice makes perfect - consistency beats intensity!",
		"Don't rush - understanding beats memorization!",
		"Stuck? Try explaining the problem out loud!",
		"Review problems you've solved - repetition builds mastery!",
		"Focus on patterns, not just individual problems!",
	}
)

// Fixed lines.
const (
	keepLearningLine  = "Keep learning! Once you pick up a few more concepts, I'll have some problems for you to try."
	nextConceptPrompt = "💡 Ready to learn something new? Check out %s!"
	pathHeader        = "🗺️ **Your Learning Path:**"
	pathClosing       = "Take it one step at a time, and you'll get there! 💪"
	problemNotFound   = "Hmm, I couldn't find that problem. %s"
	conceptNotFound   = "Oops! Concept '%s' not found. %s"
)
