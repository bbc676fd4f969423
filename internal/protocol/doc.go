// Package protocol defines the envelopes exchanged with the guide server.
//
// Every frame is a JSON object keyed by a "type" discriminator.
//
// Server -> Client
//
//	creation_phase    {phase: "creation" | "active"}
//	inspire           {text}
//	creation_response {message, suggestedVow?}
//	creation_resume   {blocks: [{type, html}]}
//	creation_ready    {character}
//	play_resume       {blocks: [{type, html}]}
//	narrative         {blocks} | {narrative, narrativeHtml}, location?, npcs?
//	move_outcome      {moveName, moveOutcomeText}
//	oracle_result     {result: {collectionName, tableName, roll, resultText}}
//	character_update  {character}
//	loading, ready
//	error             {message}
//
// Client -> Server
//
//	character_update  {character}
//	creation_chat     {text}
//	finalize_creation {character}
//	narrative         {text}
//	inspire           {}
//	progress_mark     {vowIndex}
//	move_result       {categoryKey, moveKey, stat, statValue, adds, actionDie,
//	                   challenge1, challenge2, actionScore, outcome, playerAction}
//	oracle            {collectionKey, tableKey}
//	oracle_manual     {collectionKey, tableKey, roll}
package protocol
