package lexicon

import "sync"

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default devuelve el lexico incorporado. Se compila una sola vez.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		l, err := New(DefaultDefinition())
		if err != nil {
			panic("lexicon: built-in definition is invalid: " + err.Error())
		}
		defaultLex = l
	})
	return defaultLex
}

// DefaultDefinition devuelve una copia fresca de las tablas incorporadas.
// "die" matchea como substring ("diet", "studied"): es un falso positivo conocido y aceptado.
func DefaultDefinition() Definition {
	return Definition{
		CrisisPhrases: []string{
			"suicide", "kill myself", "end my life", "hurt myself",
			"self-harm", "no point living", "want to die", "suicidal",
			"overdose", "cut myself", "jump off", "end it all", "die", "ending it",
		},
		CrisisScript: defaultCrisisScript,
		Banks:        defaultBanks(),
		Patterns:     defaultPatterns(),
		AffirmativePatterns: []string{
			`^(yes|yeah|yep|yup|sure|ok|okay|please|absolutely|of course)( please| sure| thanks| thank you)?$`,
			`\b(yes please|please do|that would help|i would like that|sounds good)\b`,
		},
		CopingFollowUps: []string{
			"That's great to hear! How does practicing that strategy feel for you?",
			"I'm glad that resonates. Is there anything else on your mind today?",
			"Wonderful. Remember, even small steps can make a difference.",
		},
		ResourceOffers: []string{
			"Okay, I can help with that. For immediate crisis support, remember 988 or Crisis Text Line (text HOME to 741741). For general support, consider NAMI or Mental Health America. Would you like direct links?",
			"Great! I have information on therapy, support groups, and self-help resources. What are you looking for specifically?",
			"Providing resources is important. Let me tell you about a few options: Therapy directories like Psychology Today, or online support communities like 7 Cups. Which sounds more helpful?",
		},
	}
}

const defaultCrisisScript = `I'm very concerned about what you've shared. Your life has value and there are people who want to help you right now.

🚨 **Please reach out for immediate help:**

• **National Suicide Prevention Lifeline: 988**
• **Crisis Text Line: Text HOME to 741741**
• **Emergency Services: 911**

You don't have to go through this alone. There are trained counselors available 24/7 who care about you and want to help. Please consider reaching out to one of these resources right away.

Is there someone you trust who you could talk to or be with right now?`

// defaultPatterns esta escrito contra texto normalizado: minusculas y sin puntuacion.
// El orden de la tabla define la precedencia.
func defaultPatterns() []PatternDefinition {
	return []PatternDefinition{
		{Category: CategoryCopingStrategy, Expressions: []string{
			`\b(cope|managing|deal with|strategies|techniques|help me coping)\b`,
			`\b(breathing exercises|mindfulness|grounding exercise|relax|calm down)\b`,
			`\b(what to do|how to handle)\b`,
		}},
		{Category: CategorySeekingResources, Expressions: []string{
			`\b(resources|help me find|therapist|doctor|professional help|support groups|hotline|get help)\b`,
			`\b(counseling|therapy|psychologist|psychiatrist)\b`,
		}},
		{Category: CategoryAnxiety, Expressions: []string{
			`\b(anxious|anxiety|worried|nervous|panic|fear|stressed out|overthinking|racing thoughts|feeling uneasy)\b`,
			`\b(panic attack|social anxiety|general anxiety disorder|gad)\b`,
		}},
		{Category: CategoryDepression, Expressions: []string{
			`\b(depressed|depression|sad|hopeless|empty|worthless|lonely|unmotivated|down|tired all the time|feeling low)\b`,
			`\b(cant get out of bed|loss of interest|nothing matters|suicidal thoughts|major depression)\b`,
		}},
		{Category: CategoryStress, Expressions: []string{
			`\b(stressed|stress|overwhelmed|pressure|burden|busy|burnout|too much|exhausted|high demands)\b`,
		}},
		{Category: CategoryLoneliness, Expressions: []string{
			`\b(lonely|alone|isolated|disconnected|no one to talk to|feel alone|solitary)\b`,
		}},
		{Category: CategoryAnger, Expressions: []string{
			`\b(angry|frustrated|rage|mad|irritated|resentful|hate|dislike|annoy|pissed|furious|upset)\b`,
			`\b(feeling angry|makes me angry)\b`,
		}},
		{Category: CategoryGrief, Expressions: []string{
			`\b(grief|lose|lost|death|mourn|bereaved|passed away|heartbroken|loss of)\b`,
		}},
		{Category: CategorySelfEsteem, Expressions: []string{
			`\b(worthless|bad about myself|ugly|not good enough|insecure|hate myself|low confidence|self doubt|not confident)\b`,
		}},
		{Category: CategorySleepIssues, Expressions: []string{
			`\b(sleep|insomnia|awake|tired|cant sleep|restless|no sleep|not sleeping|sleep problems)\b`,
		}},
		{Category: CategoryGratitude, Expressions: []string{
			`\b(thank you|thanks|thx)\b`,
		}},
		{Category: CategoryHowAreYou, Expressions: []string{
			`\b(how are you|how do you do|how r u)\b`,
		}},
		{Category: CategoryGoodbye, Expressions: []string{
			`\b(bye|goodbye|see ya|later|talk soon|good night)\b`,
		}},
		{Category: CategoryAffirmation, Expressions: []string{
			`\b(i feel that|i hear you|i understand|thats true|youre right)\b`,
		}},
	}
}

func defaultBanks() map[Category][]string {
	return map[Category][]string{
		CategoryGreeting: {
			"Hello! I'm here to listen and support you. How are you genuinely feeling today?",
			"Hi there! I'm glad you're here. What's on your mind? I'm ready to listen.",
			"Welcome! I'm here to provide a safe, non-judgmental space for you to share. How can I help?",
			"It's good to see you. How are things with you today?",
			"Hi! I'm here to support you. What's been happening?",
			"Hey! I'm glad you reached out. What's on your mind?",
			"Hello! I'm your mental wellness companion. How can I assist you today?",
		},
		CategoryAnxiety: {
			"I understand anxiety can be incredibly overwhelming. Let's take this one step at a time. Can you tell me more about what's causing it?",
			"Anxiety is a difficult feeling, but you're not alone. Would you like to explore some calming techniques like deep breathing or mindfulness?",
			"Thank you for sharing that. Anxiety is very real, and your feelings are absolutely valid. What does it feel like for you right now?",
			"It sounds like you're carrying a lot of worry. I'm here to listen without judgment. Is there anything specific on your mind that's triggering this?",
			"Anxiety can feel paralyzing. What's one small thing we can focus on right now to help ease that feeling?",
			"Feeling anxious is tough. How intense is your anxiety on a scale of 1 to 10 right now?",
			"Anxiety often comes with a racing mind. Would you like to try a grounding exercise?",
		},
		CategoryDepression: {
			"I hear that you're going through a truly tough time. Your feelings are valid and important. I'm here for you.",
			"Depression can make everything feel heavy and hopeless. I want you to know I'm here to listen without judgment.",
			"It takes immense courage to reach out when you're feeling low. I'm glad you're here talking about how you feel. What's weighing on you today?",
			"I can sense the pain in your words. Please know that it's okay to feel this way, and you don't have to carry it alone.",
			"When depression hits, even small tasks can feel monumental. Just talking about it is a step forward. What's one thing that feels hardest right now?",
			"It sounds like you're in a dark place. Please remember that feelings are temporary, and support is available.",
			"I'm sorry to hear you're feeling so down. What's one small thing that might bring a tiny bit of comfort?",
		},
		CategoryStress: {
			"Stress can be incredibly overwhelming. What's been weighing on your mind lately? Sometimes just talking helps to clear things up.",
			"It sounds like you're dealing with a lot right now. I'm here to listen. What's contributing to your stress?",
			"Stress affects us all differently. I'm here to listen to what you're going through. What strategies have you tried to manage it?",
			"Feeling stressed is a common human experience. Let's explore what might help ease some of that pressure for you.",
			"Taking on too much can lead to immense stress. What's one small burden you feel you could set down, even for a moment?",
			"It sounds like you're under a lot of pressure. What's your biggest stressor today?",
		},
		CategoryLoneliness: {
			"I hear you expressing feelings of loneliness. That's a very challenging emotion to carry. Can you tell me more about what that feels like?",
			"It sounds like you're feeling disconnected. Loneliness is a tough experience, and I want you to know you're not alone in feeling it.",
			"Reaching out about loneliness is a brave step. Is there anything specific you miss, or any connections you're looking for?",
			"Feeling lonely can be heavy. I'm here to offer companionship and a listening ear. What's on your mind about it?",
			"Sometimes loneliness comes from feeling misunderstood. Do you want to talk about that?",
			"I'm sorry you're feeling lonely. Is there anything you enjoy doing that might help you feel more connected, even if it's a small step?",
		},
		CategoryAnger: {
			"It sounds like you're experiencing a lot of anger right now. That's a powerful emotion. Can you tell me what triggered it?",
			"Feeling angry is a natural human response sometimes. What's making you feel this way? I'm here to listen.",
			"It takes courage to acknowledge anger. Let's talk about what's upsetting you.",
			"Anger can be a sign that something needs attention. What do you feel is being threatened or violated?",
			"I hear the frustration in your words. What would feel helpful for you to process this anger?",
			"It sounds like you're feeling a strong sense of anger. I'm here to listen to that. What specifically is making you feel this way?",
			"It's okay to feel angry. What is the core issue that's making you so upset?",
		},
		CategoryGrief: {
			"I'm so sorry to hear you're experiencing grief. That must be incredibly painful. I'm here to hold space for you.",
			"Grief is a heavy burden, and it's unique to everyone. Please take your time, and know I'm here to listen to whatever you need to share.",
			"It takes immense strength to navigate loss. There's no right or wrong way to grieve. What's on your heart right now?",
			"I hear your sadness and loss. If you wish to talk about what you're going through, I am here.",
			"It sounds like you're experiencing deep sorrow. Remember, it's okay to feel whatever you're feeling.",
			"Grief is a process. Please be kind to yourself during this time. Would you like to talk about what you've lost?",
		},
		CategorySelfEsteem: {
			"It sounds like you're struggling with how you see yourself. Please remember your worth is inherent, not based on external factors.",
			"Self-esteem can be a tough battle. What makes you feel this way? I'm here to remind you of your strengths.",
			"You are valuable and deserving. Let's try to focus on some of your positive qualities or past achievements.",
			"Building self-esteem takes time and kindness to oneself. What's one small act of self-care you can do today that might make you feel a little better?",
			"I hear you questioning your worth. Remember, every individual has unique strengths and qualities. What are some things you're good at?",
			"It's important to be kind to yourself. How can you challenge a negative thought about yourself right now?",
		},
		CategorySleepIssues: {
			"Trouble sleeping can really impact how you feel and function. What's been keeping you awake?",
			"Sleep is so important for mental well-being. Let's discuss some common tips for improving sleep hygiene, like a consistent schedule or winding down routines.",
			"It sounds like you're not getting enough restful sleep. What does your routine look like before bed?",
			"Lack of sleep can make everything feel harder. Are there any thoughts or worries that come up when you try to sleep?",
			"I'm sorry sleep is being elusive. How many hours of sleep have you been getting on average?",
			"Sometimes, stress can disrupt sleep. Is there anything on your mind that's making it hard to rest?",
		},
		CategoryCopingStrategy: {
			"It sounds like you're looking for ways to cope. What kind of strategies are you interested in? (e.g., relaxation, distraction, problem-solving)",
			"I can offer some coping strategies. Would you like to try a deep breathing exercise, or perhaps discuss mindfulness?",
			"Coping strategies are personal. What's one thing that has helped you feel a little better in the past?",
			"Let's explore some tools to help you manage. Are you feeling overwhelmed and need to relax, or do you want to tackle a specific problem?",
			"Would you like to learn a quick grounding technique to help with intense feelings?",
		},
		CategorySeekingResources: {
			"I can provide you with some mental health resources. What kind of support are you looking for? (e.g., crisis lines, therapy, self-help)",
			"It's great you're looking for resources. What specific area of mental health are you interested in?",
			"I can share information on professional support. Are you looking for therapy options, support groups, or something else?",
			"I have a list of trusted resources. What type of help would be most useful for you right now?",
		},
		CategoryPositive: {
			"I'm so glad to hear some positivity in your message! What's been going well for you?",
			"That sounds encouraging! It's great to hear you're feeling better. What made the difference?",
			"I'm happy you're having a good moment. What's been helping you feel this way?",
			"It's wonderful to hear some brightness in your message. Keep focusing on those positive things!",
			"That's fantastic news! What's something that made you smile today?",
			"That's awesome! What's the best part about feeling this way?",
			"It's truly wonderful to hear you're doing well!",
		},
		CategoryNeutralInquiry: {
			"Thank you for sharing. Can you elaborate a bit more on that?",
			"I'm listening. What else is on your mind about this?",
			"Okay, I hear you. What aspects of that would you like to explore further?",
			"What do you mean by that? I'm here to understand better.",
			"I'm here to help. What's the next thing you'd like to talk about?",
			"I hear what you're saying. How does that make you feel?",
			"Can you tell me more about that situation?",
		},
		CategoryUncertain: {
			"I'm not quite sure how to help with that. Can you rephrase or tell me more specifically what's on your mind?",
			"My understanding is limited. Could you tell me in different words what you're experiencing?",
			"I'm here to support you. What are you hoping to talk about regarding that?",
			"Sometimes it's hard to put feelings into words. What's the main thing you want to share right now?",
		},
		CategoryGeneralSupport: {
			"I'm here to listen. Can you tell me more about how you're feeling?",
			"Thank you for sharing with me. What's been on your mind lately?",
			"I appreciate you opening up. How has your day been overall?",
			"Your feelings matter. Would you like to tell me more about what's troubling you?",
			"It sounds like you're going through something. I'm here to support you.",
			"What's one thing you're hoping to get out of our conversation today?",
			"Sometimes just talking can help. What's on your mind?",
		},
		CategoryAffirmation: {
			"That sounds really challenging, and it takes strength to talk about it.",
			"I hear you, and your feelings are completely valid.",
			"It's okay to feel that way.",
			"Thank you for sharing that with me.",
		},
		CategoryProactiveOfferSupport: {
			"Is there anything specific you'd like to discuss further, or perhaps a coping strategy we could explore?",
			"I'm here to help you process this. What feels most important to you right now?",
			"Would you like to talk more about this, or maybe explore some resources that could help?",
			"How would you like to proceed? I'm here for you.",
		},
		CategoryGratitude: {
			"You're welcome! I'm here to help.",
			"Glad I could be of assistance!",
			"No problem at all. My pleasure to support you.",
			"Happy to help!",
		},
		CategoryHowAreYou: {
			"As an AI, I don't have feelings, but I'm functioning well and ready to support you. How can I help you today?",
			"I don't experience emotions, but I'm here and fully operational to listen to you. What's on your mind?",
			"Thank you for asking! I'm here to focus on your well-being. How are you doing?",
		},
		CategoryGoodbye: {
			"Take care of yourself. I'm here whenever you want to talk again.",
			"Goodbye for now. Remember, reaching out is a sign of strength.",
			"It was good talking with you. Be gentle with yourself today.",
			"See you soon. If things get hard, support is always available.",
		},
	}
}
